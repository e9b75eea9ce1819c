package server

import "github.com/gofiber/fiber/v2"

// FeatureFlagsResponse pairs the configured rule of each flag with its value
// for the caller. Anonymous callers are evaluated as user 0.
type FeatureFlagsResponse struct {
	Raw       map[string]string `json:"raw"`
	Evaluated map[string]bool   `json:"evaluated"`
}

// GetFeatureFlags reports feature flags as seen by the caller.
// @Summary Feature flags
// @Tags meta
// @Produce json
// @Success 200 {object} server.FeatureFlagsResponse
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	// Manager methods are nil-safe and still list the known flags.
	return c.JSON(FeatureFlagsResponse{
		Raw:       s.featureFlags.Raw(),
		Evaluated: s.featureFlags.Snapshot(currentUserID(c)),
	})
}
