package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Matcha type choices for a review. "other" is the default.
const (
	MatchaTypeCeremonial = "ceremonial"
	MatchaTypeCulinary   = "culinary"
	MatchaTypePremium    = "premium"
	MatchaTypeLatteGrade = "latte-grade"
	MatchaTypeOther      = "other"
)

// MatchaTypes lists every accepted matcha type value.
var MatchaTypes = []string{
	MatchaTypeCeremonial,
	MatchaTypeCulinary,
	MatchaTypePremium,
	MatchaTypeLatteGrade,
	MatchaTypeOther,
}

// ValidMatchaType reports whether v is one of the accepted matcha types.
func ValidMatchaType(v string) bool {
	for _, t := range MatchaTypes {
		if t == v {
			return true
		}
	}
	return false
}

// PriceRanges lists every accepted price range value. Empty means unrated.
var PriceRanges = []string{"", "$", "$$", "$$$", "$$$$"}

// FlavorNotes is the fixed vocabulary a review may tag its flavor with.
var FlavorNotes = []string{
	"earthy", "grassy", "umami", "sweet", "bitter", "creamy",
	"smooth", "nutty", "vegetal", "fresh", "rich", "delicate",
}

// StoreLocation is the optional address of the reviewed shop.
type StoreLocation struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// DetailedRatings holds the optional per-aspect sub-scores. Zero means unset.
type DetailedRatings struct {
	Taste      int `json:"taste,omitempty"`
	Texture    int `json:"texture,omitempty"`
	Bitterness int `json:"bitterness,omitempty"`
	Sweetness  int `json:"sweetness,omitempty"`
}

// PostImage is one entry of a review's ordered image list. URLs are opaque.
type PostImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Post represents a matcha review.
type Post struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"userId"`
	User   User `gorm:"foreignKey:UserID" json:"user"`

	StoreName     string        `gorm:"not null;index" json:"storeName"`
	StoreLocation StoreLocation `gorm:"embedded;embeddedPrefix:store_" json:"storeLocation"`

	ProductName string `json:"productName"`
	Brand       string `json:"brand"`
	MatchaType  string `gorm:"default:other" json:"matchaType"`
	Origin      string `json:"origin"`
	PriceRange  string `json:"priceRange"`

	ReviewText      string          `gorm:"type:text;not null" json:"reviewText"`
	OverallRating   int             `gorm:"not null" json:"overallRating"`
	DetailedRatings DetailedRatings `gorm:"embedded;embeddedPrefix:rating_" json:"detailedRatings"`

	Images      datatypes.JSONSlice[PostImage] `json:"images"`
	Tags        datatypes.JSONSlice[string]    `json:"tags"`
	FlavorNotes datatypes.JSONSlice[string]    `json:"flavorNotes"`

	// Likes holds the ids of users who liked this review; loaded from the
	// likes table, never stored on the row itself.
	Likes []uint `gorm:"-" json:"likes"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likesCount"`
	// CommentsCount is not persisted; no comment entity exists, so it is
	// always zero (computed alias keeps the response shape stable)
	CommentsCount int `gorm:"->;-:migration" json:"commentsCount"`
	// Liked indicates whether the requesting user liked this review (computed)
	Liked bool `gorm:"->;-:migration" json:"liked"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
