package scrape

import (
	"context"
	"fmt"

	appLog "bballcal/internal/log"
)

// Client bundles the page fetcher with the headless-render fallback. The
// zero value is not usable; construct with NewClient.
type Client struct {
	fetcher *Fetcher

	// renderFallback enables the headless Chromium pass when the plain
	// launch-page fetch yields no towns.
	renderFallback bool
}

// NewClient creates a scrape client whose page cache lives under cacheDir.
func NewClient(cacheDir string) *Client {
	return &Client{
		fetcher:        NewFetcher(cacheDir),
		renderFallback: true,
	}
}

// DisableRenderFallback turns off the headless Chromium pass, for
// environments without a browser installed.
func (c *Client) DisableRenderFallback() {
	c.renderFallback = false
}

// TownID resolves the league-specific numeric ID for a town name. Resolution
// order: parse the launch page, re-parse after a headless render, then the
// hardcoded fallback table.
func (c *Client) TownID(ctx context.Context, league League, townName string) (string, error) {
	towns := c.fetchTowns(ctx, league)
	if id, ok := LookupTown(towns, townName); ok {
		return id, nil
	}

	if len(towns) == 0 && c.renderFallback {
		appLog.Info("no towns in static page, rendering with headless browser", "league", league.ID)
		html, err := RenderPage(ctx, league.URL, 0)
		if err != nil {
			appLog.Error("headless render failed", err, "league", league.ID)
		} else if rendered, perr := ParseTowns(html); perr == nil {
			if id, ok := LookupTown(rendered, townName); ok {
				return id, nil
			}
		}
	}

	if id, ok := fallbackTownID(league.ID, townName); ok {
		appLog.Warn("using hardcoded fallback town id",
			"league", league.ID, "town", townName, "id", id)
		return id, nil
	}

	return "", fmt.Errorf("town %q not found in %s", townName, league.Name)
}

func (c *Client) fetchTowns(ctx context.Context, league League) map[string]string {
	html, err := c.fetcher.FetchPage(ctx, league.URL)
	if err != nil {
		appLog.Error("launch page fetch failed", err, "league", league.ID)
		return nil
	}
	towns, err := ParseTowns(html)
	if err != nil {
		appLog.Error("launch page parse failed", err, "league", league.ID)
		return nil
	}
	appLog.Info("parsed towns from launch page", "league", league.ID, "count", len(towns))
	return towns
}
