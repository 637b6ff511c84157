package model

// TagKeys is the controlled vocabulary for listing tags.  Tags on a
// scholarship must come from this set; the UI translates each key per
// language.
var TagKeys = []string{
	"tech", "stem", "leadership", "arts", "design", "music",
	"community_service", "volunteering", "engineering", "women_in_tech",
	"medical", "healthcare", "first_gen", "education", "environment",
	"science", "research", "international", "study_abroad", "business",
	"finance", "marketing", "journalism", "communications", "culinary_arts",
	"athletics", "computer_science", "ai", "cybersecurity", "history",
	"architecture", "humanities", "renewable_energy", "disability_advocacy",
	"social_justice", "performance", "entrepreneurship", "philosophy",
	"agriculture", "aerospace", "marine_biology",
}

var tagSet = func() map[string]bool {
	m := make(map[string]bool, len(TagKeys))
	for _, k := range TagKeys {
		m[k] = true
	}
	return m
}()

// ValidTag reports whether the key belongs to the controlled
// vocabulary.
func ValidTag(key string) bool { return tagSet[key] }
