package categories

import (
	"fmt"
	"strings"

	"github.com/shipdeck/shipdeck/internal/masterdata/shared"
)

func (s *Service) validate(c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: category name", shared.ErrRequiredField)
	}
	// Display names are stored title-cased for consistent listings.
	c.Name = shared.TitleCase(c.Name)
	c.ImageURL = strings.TrimSpace(c.ImageURL)
	return nil
}
