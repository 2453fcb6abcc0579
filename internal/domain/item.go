package domain

import (
	"strings"
)

// ItemData is the static catalog definition of an item as supplied by the host.
type ItemData struct {
	Name        string  `json:"name" validate:"required"`
	Label       string  `json:"label"`
	Stack       bool    `json:"stack"`
	Usable      bool    `json:"usable"`
	Close       bool    `json:"close"`
	Count       int     `json:"count"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Rarity      any     `json:"rarity,omitempty"`
}

// Rarity keys in ascending order of value
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
	RarityMythic    = "mythic"
)

var rarityTiers = map[int]string{
	1: RarityCommon,
	2: RarityUncommon,
	3: RarityRare,
	4: RarityEpic,
	5: RarityLegendary,
	7: RarityMythic,
}

var rarityNames = map[string]bool{
	RarityCommon:    true,
	RarityUncommon:  true,
	RarityRare:      true,
	RarityEpic:      true,
	RarityLegendary: true,
	RarityMythic:    true,
}

// RarityKey maps a numeric tier or a name (any case) to a rarity key.
// Anything unrecognised is common.
func RarityKey(v any) string {
	if s, ok := v.(string); ok {
		key := strings.ToLower(strings.TrimSpace(s))
		if rarityNames[key] {
			return key
		}
		return RarityCommon
	}
	if f, ok := toFloat(v); ok {
		if key, ok := rarityTiers[int(f)]; ok {
			return key
		}
	}
	return RarityCommon
}

// ItemImageURL resolves the image for a slot: an explicit metadata URL, then a
// metadata image name under the base path, then the catalog image, then the
// item name under the base path.
func ItemImageURL(s Slot, data *ItemData, imagePath string) string {
	if url, ok := s.Metadata.String(MetaImageURL); ok {
		return url
	}
	if img, ok := s.Metadata.String(MetaImage); ok {
		return imagePath + "/" + img + ".png"
	}
	if data != nil && data.Image != "" {
		return data.Image
	}
	if s.Name == "" {
		return ""
	}
	return imagePath + "/" + s.Name + ".png"
}
