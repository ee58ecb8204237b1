// Page models and templates for the two HTML views
package server

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/nainya/journeylens/pkg/journey"
	"github.com/nainya/journeylens/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseViews() (*template.Template, error) {
	funcs := template.FuncMap{
		"percent": func(v, total int) int {
			if total <= 0 {
				return 0
			}
			return v * 100 / total
		},
	}
	return template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type episodeCard struct {
	Index   int
	Episode journey.Episode
	Active  bool
}

type journeyPage struct {
	Title     string
	Episodes  []episodeCard
	Selected  *journey.Episode
	Index     int
	Chats     []ChatView
	DateError string
	Trace     *journey.DecisionTrace
}

func newJourneyPage(svc *Service, v session.View) journeyPage {
	page := journeyPage{
		Title:    "Journey View",
		Selected: v.Episode,
		Index:    v.EpisodeIndex,
		Chats:    svc.chatViews(v.Chats),
		Trace:    v.Trace,
	}
	for i, ep := range svc.Episodes() {
		page.Episodes = append(page.Episodes, episodeCard{Index: i, Episode: ep, Active: i == v.EpisodeIndex})
	}
	if v.DateError != nil {
		page.DateError = fmt.Sprintf("The dates of %q could not be read.", v.Episode.Title)
	}
	return page
}

type bar struct {
	Label string
	Value int
	Color template.CSS // fixed palette, never user data
}

type monthRow struct {
	Month string
	Bars  []bar
}

type pieSlice struct {
	Label   string
	Value   int
	Percent int
	Color   string
}

type dashboardPage struct {
	Title           string
	AdherenceTitle  string
	Max             int
	Months          []monthRow
	EngagementTitle string
	Slices          []pieSlice
	TotalMessages   int
}

func newDashboardPage(d Dashboard) dashboardPage {
	adherence, engagement := d.Charts.Adherence, d.Charts.Engagement
	page := dashboardPage{
		Title:           "Analytics Dashboard",
		AdherenceTitle:  adherence.Title,
		Max:             adherence.Max(),
		EngagementTitle: engagement.Title,
	}

	for i, month := range adherence.Labels {
		row := monthRow{Month: month}
		for _, ds := range adherence.Datasets {
			row.Bars = append(row.Bars, bar{Label: ds.Label, Value: ds.Data[i], Color: template.CSS(ds.Colors[0])})
		}
		page.Months = append(page.Months, row)
	}

	if len(engagement.Datasets) > 0 {
		ds := engagement.Datasets[0]
		for _, v := range ds.Data {
			page.TotalMessages += v
		}
		for i, label := range engagement.Labels {
			pct := 0
			if page.TotalMessages > 0 {
				pct = ds.Data[i] * 100 / page.TotalMessages
			}
			page.Slices = append(page.Slices, pieSlice{Label: label, Value: ds.Data[i], Percent: pct, Color: ds.Colors[i]})
		}
	}
	return page
}
