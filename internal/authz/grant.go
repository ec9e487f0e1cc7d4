package authz

import (
	"encoding/json"
	"log/slog"
)

// Grant is a single permission record assigned to a staff actor. The
// grant is active only while Status is true; a false or missing status
// is equivalent to no grant at all.
type Grant struct {
	Module string `json:"module"`
	Panel  string `json:"panel"`
	Action string `json:"action"`
	Status bool   `json:"status"`
}

// ParseGrants decodes a raw grant payload from the permission-list
// endpoint into validated Grant records. Entries without a module or
// action are dropped and logged rather than trusted downstream. The
// returned slice is never nil.
func ParseGrants(data []byte, logger *slog.Logger) ([]Grant, error) {
	var raw []Grant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return SanitizeGrants(raw, logger), nil
}

// SanitizeGrants filters out grant records that lack a module or
// action label. Panel is informational and may be empty.
func SanitizeGrants(grants []Grant, logger *slog.Logger) []Grant {
	out := make([]Grant, 0, len(grants))
	for _, g := range grants {
		if g.Module == "" || g.Action == "" {
			if logger != nil {
				logger.Warn("dropping malformed grant",
					slog.String("module", g.Module),
					slog.String("action", g.Action))
			}
			continue
		}
		out = append(out, g)
	}
	return out
}
