package seo

// RouteMeta is the head metadata served for one client route.
type RouteMeta struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Canonical   string `json:"canonical"`
	NoIndex     bool   `json:"no_index"`
}

var defaultMeta = RouteMeta{
	Title:       "Rangpur Care - Doctor Appointments, Ambulance & Health Services in Rangpur",
	Description: "Find doctors, book serials, call an ambulance and order medical equipment in Rangpur, Bangladesh.",
	Keywords:    "rangpur doctor, doctor serial rangpur, ambulance rangpur, rangpur care",
	Canonical:   "/",
}

// routeMetaTable covers every prerendered client route. Dynamic detail pages
// get their metadata from the crawler shells instead.
var routeMetaTable = map[string]RouteMeta{
	"/": {
		Path:        "/",
		Title:       defaultMeta.Title,
		Description: defaultMeta.Description,
		Keywords:    defaultMeta.Keywords,
		Canonical:   "/",
	},
	"/doctors": {
		Path:        "/doctors",
		Title:       "Doctor Directory in Rangpur - Find Specialists & Book Serials",
		Description: "Browse verified doctors in Rangpur by specialty, see visiting fees and chamber schedules, and book your serial online.",
		Keywords:    "rangpur doctor list, specialist doctor rangpur, doctor serial booking",
		Canonical:   "/doctors",
	},
	"/ambulance": {
		Path:        "/ambulance",
		Title:       "24/7 Ambulance Service in Rangpur - Request Now",
		Description: "Request an ambulance anywhere in Rangpur district, day or night. Verified drivers, fast dispatch.",
		Keywords:    "ambulance rangpur, emergency ambulance, 24 hour ambulance rangpur",
		Canonical:   "/ambulance",
	},
	"/blog": {
		Path:        "/blog",
		Title:       "Health Blog - Rangpur Care",
		Description: "Health tips, disease awareness and doctor recommendations from Rangpur Care.",
		Keywords:    "health blog bangla, rangpur health tips",
		Canonical:   "/blog",
	},
	"/store": {
		Path:        "/store",
		Title:       "Medical Equipment Store - Rangpur Care",
		Description: "Order medical equipment and health supplies with home delivery in Rangpur city and beyond.",
		Keywords:    "medical equipment rangpur, health products online bangladesh",
		Canonical:   "/store",
	},
	"/contact": {
		Path:        "/contact",
		Title:       "Contact Rangpur Care",
		Description: "Hotlines, office address and social channels for Rangpur Care.",
		Keywords:    "rangpur care contact, rangpur care hotline",
		Canonical:   "/contact",
	},
	"/apply/doctor": {
		Path:        "/apply/doctor",
		Title:       "Join as a Doctor - Rangpur Care",
		Description: "Apply to list your chamber on Rangpur Care and receive online serial bookings.",
		Keywords:    "doctor registration rangpur, list chamber online",
		Canonical:   "/apply/doctor",
	},
	"/apply/ambulance": {
		Path:        "/apply/ambulance",
		Title:       "Register Your Ambulance - Rangpur Care",
		Description: "Register your ambulance with Rangpur Care and receive dispatch requests.",
		Keywords:    "ambulance registration rangpur",
		Canonical:   "/apply/ambulance",
	},
	"/admin": {
		Path:      "/admin",
		Title:     "Admin - Rangpur Care",
		Canonical: "/admin",
		NoIndex:   true,
	},
}

// MetaForPath returns the metadata for a known route, or the site default.
func MetaForPath(path string) (RouteMeta, bool) {
	meta, ok := routeMetaTable[path]
	if !ok {
		return defaultMeta, false
	}
	return meta, true
}

// PrerenderRoutes lists every path a prerender pass should snapshot. Admin
// and other noindex routes are excluded.
func PrerenderRoutes() []string {
	routes := make([]string, 0, len(routeMetaTable))
	for path, meta := range routeMetaTable {
		if meta.NoIndex {
			continue
		}
		routes = append(routes, path)
	}
	return routes
}
