package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoPlaceholders(t *testing.T) {
	content := `<p>Stay healthy this <strong>winter</strong>.</p>`

	segments := Parse(content)

	require.Len(t, segments, 1)
	assert.Equal(t, SegmentHTML, segments[0].Type)
	assert.Equal(t, content, segments[0].HTML)
}

func TestParsePlaceholderSplitsSegments(t *testing.T) {
	content := `<p>Intro</p>` +
		`<div class="doctor-embed" data-doctors="dr-rahman, 9f0c2c1e-23a0-4c5d-8f7e-0a1b2c3d4e5f"><p>loading...</p></div>` +
		`<p>Outro</p>`

	segments := Parse(content)

	require.Len(t, segments, 3)
	assert.Equal(t, SegmentHTML, segments[0].Type)
	assert.Equal(t, `<p>Intro</p>`, segments[0].HTML)

	assert.Equal(t, SegmentDoctorEmbed, segments[1].Type)
	assert.Equal(t, []string{"dr-rahman", "9f0c2c1e-23a0-4c5d-8f7e-0a1b2c3d4e5f"}, segments[1].Refs)
	assert.Empty(t, segments[1].HTML, "placeholder inner markup must not leak")

	assert.Equal(t, SegmentHTML, segments[2].Type)
	assert.Equal(t, `<p>Outro</p>`, segments[2].HTML)
}

func TestParseKeepsDuplicateRefs(t *testing.T) {
	content := `<div class="doctor-embed" data-doctors="dr-karim,dr-karim"></div>`

	segments := Parse(content)

	require.Len(t, segments, 1)
	assert.Equal(t, []string{"dr-karim", "dr-karim"}, segments[0].Refs)
}

func TestParseMalformedPlaceholderPassesThrough(t *testing.T) {
	content := `<p>a</p><div class="doctor-embed">broken</div><p>b</p>`

	segments := Parse(content)

	require.Len(t, segments, 1)
	assert.Equal(t, SegmentHTML, segments[0].Type)
	assert.Contains(t, segments[0].HTML, `class="doctor-embed"`)
	assert.Contains(t, segments[0].HTML, "broken")
}

func TestParseStripsEditorScaffolding(t *testing.T) {
	content := `<p>keep</p><div data-editor-scaffold="1"><span>drop me</span></div><p>also keep</p>`

	segments := Parse(content)

	require.Len(t, segments, 1)
	assert.NotContains(t, segments[0].HTML, "drop me")
	assert.Contains(t, segments[0].HTML, "keep")
	assert.Contains(t, segments[0].HTML, "also keep")
}

func TestParseNestedMarkupInsidePlaceholderIsSkipped(t *testing.T) {
	content := `<div class="doctor-embed" data-doctors="dr-a"><div><img src="x.png"><p>inner</p></div></div><p>tail</p>`

	segments := Parse(content)

	require.Len(t, segments, 2)
	assert.Equal(t, SegmentDoctorEmbed, segments[0].Type)
	assert.Equal(t, SegmentHTML, segments[1].Type)
	assert.Equal(t, `<p>tail</p>`, segments[1].HTML)
}

func TestParseRefsTrimsAndDropsEmpties(t *testing.T) {
	refs := parseRefs("  dr-a , ,dr-b,")
	assert.Equal(t, []string{"dr-a", "dr-b"}, refs)
}

func TestClassifyRefs(t *testing.T) {
	uuids, slugs := ClassifyRefs([]string{
		"9f0c2c1e-23a0-4c5d-8f7e-0a1b2c3d4e5f",
		"dr-rahman",
		"not-a-uuid-at-all",
	})

	assert.Equal(t, []string{"9f0c2c1e-23a0-4c5d-8f7e-0a1b2c3d4e5f"}, uuids)
	assert.Equal(t, []string{"dr-rahman", "not-a-uuid-at-all"}, slugs)
}
