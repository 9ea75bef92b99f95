package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type BlogPost struct {
	gorm.Model
	Slug            string         `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug"`
	Title           string         `gorm:"column:title;size:255;not null" json:"title"`
	Excerpt         string         `gorm:"column:excerpt;type:text" json:"excerpt"`
	ContentHTML     string         `gorm:"column:content_html;type:text;not null" json:"content_html"`
	CoverImagePath  string         `gorm:"column:cover_image_path;size:255" json:"cover_image_path"`
	Categories      pq.StringArray `gorm:"column:categories;type:text[]" json:"categories"`
	MetaTitle       string         `gorm:"column:meta_title;size:255" json:"meta_title"`
	MetaDescription string         `gorm:"column:meta_description;type:text" json:"meta_description"`
	Published       bool           `gorm:"column:published;default:false" json:"published"`
	ViewCount       int64          `gorm:"column:view_count;default:0" json:"view_count"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}
