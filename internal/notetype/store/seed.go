package store

import "casenotes/internal/notetype/models"

// SeedDefaultTypes loads the baseline catalog used by development and tests.
func SeedDefaultTypes(catalog *InMemory) {
	for _, noteType := range []models.NoteType{
		{ParentType: "POM", SubType: "GEN", Description: "POM general note"},
		{ParentType: "POM", SubType: "SPECIAL", Description: "POM special note", Sensitive: true},
		{ParentType: "OBS", SubType: "GEN", Description: "Observation"},
		{ParentType: "KA", SubType: "KS", Description: "Key worker session"},
	} {
		catalog.Put(noteType)
	}
}
