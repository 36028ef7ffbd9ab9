package registry

import "github.com/atinyakov/accountkeeper/internal/models"

// NormalizeLabels upgrades legacy string labels to the structured shape.
// Structured entries pass through. The result is never nil.
func NormalizeLabels(entries []models.LabelEntry) []models.Label {
	out := make([]models.Label, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Label())
	}
	return out
}

// normalize returns a copy of a that owns its labels.
func normalize(a models.Account) models.Account {
	out := a.Clone()
	out.Type = a.Type.Canonical()
	return out
}

func fromStored(s models.StoredAccount) models.Account {
	return models.Account{
		Labels:   NormalizeLabels(s.Labels),
		Type:     s.Type.Canonical(),
		Login:    s.Login,
		Password: s.Password,
	}
}
