package injurywire

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/vantage/internal/model"
)

// ProviderName tags normalized records that came from this aggregator.
const ProviderName = "injurywire"

// Report is the aggregator's injury entry after defensive field
// extraction. All fields are free text as scraped.
type Report struct {
	Player      string
	Team        string
	Status      string
	Type        string
	Description string
	Return      string // date-ish free text, often empty
}

// parseInjuryHTML extracts reports from the rendered injury table. The
// column order has been stable even when the JSON feed was not.
func parseInjuryHTML(html string) ([]Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing injury page: %w", err)
	}

	var reports []Report
	doc.Find("table.injury-report tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		r := Report{
			Player: strings.TrimSpace(cells.Eq(0).Text()),
			Team:   strings.TrimSpace(cells.Eq(1).Text()),
			Status: strings.TrimSpace(cells.Eq(2).Text()),
		}
		if cells.Length() > 3 {
			r.Type = strings.TrimSpace(cells.Eq(3).Text())
		}
		if cells.Length() > 4 {
			r.Description = strings.TrimSpace(cells.Eq(4).Text())
		}
		if cells.Length() > 5 {
			r.Return = strings.TrimSpace(cells.Eq(5).Text())
		}
		if r.Player != "" {
			reports = append(reports, r)
		}
	})

	return reports, nil
}

// parseStatus maps the aggregator's free-text designations onto the
// canonical enum. Unrecognized designations default to questionable, the
// least committal grade.
func parseStatus(s string) model.InjuryStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "out", "o", "injured reserve", "ir":
		return model.InjuryOut
	case "doubtful", "d":
		return model.InjuryDoubtful
	case "questionable", "q", "gtd", "game time decision":
		return model.InjuryQuestionable
	case "probable", "p":
		return model.InjuryProbable
	case "day-to-day", "day to day", "dtd":
		return model.InjuryDayToDay
	default:
		return model.InjuryQuestionable
	}
}

// returnDateFormats covers the date spellings seen in the feed.
var returnDateFormats = []string{"2006-01-02", "Jan 2, 2006", "Jan 2", "01/02/2006"}

func parseReturn(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") || strings.EqualFold(s, "tbd") {
		return nil
	}
	for _, layout := range returnDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			// Month-day spellings carry no year; assume the current one.
			if t.Year() == 0 {
				now := time.Now()
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			}
			return &t
		}
	}
	return nil
}

// ParseReports maps raw aggregator entries into canonical injuries.
func ParseReports(reports []Report) []model.Injury {
	injuries := make([]model.Injury, 0, len(reports))
	now := time.Now().UTC()
	for _, r := range reports {
		injuries = append(injuries, model.Injury{
			PlayerName:     r.Player,
			TeamName:       r.Team,
			Status:         parseStatus(r.Status),
			Type:           r.Type,
			Description:    r.Description,
			ExpectedReturn: parseReturn(r.Return),
			Provider:       ProviderName,
			FetchedAt:      now,
		})
	}
	return injuries
}
