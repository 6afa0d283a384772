package consumer

import (
	"testing"
	"time"

	"github.com/mgreco/oddsedge/pkg/models"
)

func TestResolveRawLines(t *testing.T) {
	half := 210.5
	snap := models.Snapshot{
		Source:     models.SourceComparison,
		Sport:      "nba",
		CapturedAt: time.Now(),
		Events: []models.RawEvent{
			{
				HomeTeamRaw: "Boston Celtics",
				AwayTeamRaw: "Los Angeles Lakers",
				Quotes: []models.Quote{
					{MarketType: models.MarketTotal, Side: models.SideOver, LineRaw: "210½", Price: -110},
					{MarketType: models.MarketSpread, Side: models.SideHome, LineRaw: "-2.5/3", Price: -105},
					{MarketType: models.MarketTotal, Side: models.SideUnder, Line: &half, LineRaw: "ignored", Price: -110},
					{MarketType: models.MarketSpread, Side: models.SideAway, LineRaw: "PK?", Price: 100},
					{MarketType: models.MarketMoneyline, Side: models.SideHome, Price: 120},
				},
			},
		},
	}

	ResolveRawLines(&snap)

	quotes := snap.Events[0].Quotes

	if quotes[0].Line == nil || *quotes[0].Line != 210.5 {
		t.Errorf("half glyph line = %v, want 210.5", quotes[0].Line)
	}
	if quotes[1].Line == nil || *quotes[1].Line != -2.75 {
		t.Errorf("asian split line = %v, want -2.75", quotes[1].Line)
	}
	if quotes[2].Line == nil || *quotes[2].Line != 210.5 {
		t.Errorf("numeric line overwritten: %v", quotes[2].Line)
	}
	if quotes[3].Line != nil {
		t.Errorf("unparseable raw line produced %v, want nil", *quotes[3].Line)
	}
	if quotes[4].Line != nil {
		t.Errorf("moneyline gained a line: %v", *quotes[4].Line)
	}
}
