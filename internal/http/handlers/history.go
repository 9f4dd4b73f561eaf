package handlers

import (
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"meetstats/internal/calendar"
	dbpkg "meetstats/internal/db"
	"meetstats/internal/jst"
)

type historyItem struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Category         string   `json:"category"`
	OrganizerEmail   string   `json:"organizerEmail"`
	AttendeeName     string   `json:"attendeeName"`
	AttendeeEmail    string   `json:"attendeeEmail"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	Duration         int      `json:"duration"`
	ActualDuration   *int     `json:"actualDuration"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	DocumentURLs     []string `json:"documentUrls"`
	VideoURLs        []string `json:"videoUrls"`
	MeetLink         string   `json:"meetLink"`
	CalendarEventURL string   `json:"calendarEventUrl"`
}

// MeetingHistory lists synced meetings newest first, with pagination and
// the filters the dashboard's history tab offers.
func MeetingHistory(meetings *dbpkg.MeetingStore) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		args := ctx.QueryArgs()

		page, _ := strconv.Atoi(string(args.Peek("page")))
		limit, _ := strconv.Atoi(string(args.Peek("limit")))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 200 {
			limit = 25
		}

		var filter dbpkg.HistoryFilter
		if v := string(args.Peek("startDate")); v != "" {
			start, _, err := jst.DayBounds(v)
			if err != nil {
				errResponse(ctx, fasthttp.StatusBadRequest, "invalid startDate")
				return
			}
			filter.Start = &start
		}
		if v := string(args.Peek("endDate")); v != "" {
			_, end, err := jst.DayBounds(v)
			if err != nil {
				errResponse(ctx, fasthttp.StatusBadRequest, "invalid endDate")
				return
			}
			filter.End = &end
		}
		filter.OrganizerEmail = string(args.Peek("organizerEmail"))
		filter.AttendeeName = string(args.Peek("attendeeName"))
		if v := calendar.Category(args.Peek("category")); v.Valid() {
			filter.Category = v
		}

		events, total, err := meetings.SearchHistory(ctx, filter, page, limit)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load meeting history")
			return
		}

		items := make([]historyItem, 0, len(events))
		for i := range events {
			items = append(items, toHistoryItem(&events[i]))
		}

		totalPages := (total + int64(limit) - 1) / int64(limit)
		jsonResponse(ctx, map[string]any{
			"success": true,
			"data":    items,
			"pagination": map[string]any{
				"currentPage":  page,
				"totalPages":   totalPages,
				"totalItems":   total,
				"itemsPerPage": limit,
			},
		})
	}
}

func toHistoryItem(m *dbpkg.MeetingEvent) historyItem {
	startJST := m.StartTime.In(jst.Location)
	return historyItem{
		ID:               strconv.FormatUint(uint64(m.ID), 10),
		Title:            m.Title,
		Category:         categoryLabel(m.Category),
		OrganizerEmail:   m.OrganizerEmail,
		AttendeeName:     m.AttendeeName,
		AttendeeEmail:    m.AttendeeEmail,
		StartTime:        m.StartTime.Format(time.RFC3339),
		EndTime:          m.EndTime.Format(time.RFC3339),
		Duration:         m.DurationMinutes,
		ActualDuration:   m.ActualDurationMinutes,
		Date:             startJST.Format("2006/01/02"),
		Time:             startJST.Format("15:04"),
		Description:      m.Description,
		Location:         m.Location,
		DocumentURLs:     m.DocumentURLs,
		VideoURLs:        m.VideoURLs,
		MeetLink:         m.MeetLink,
		CalendarEventURL: m.CalendarEventURL,
	}
}

// categoryLabel renders the Japanese display name the dashboard shows.
func categoryLabel(c calendar.Category) string {
	if c == calendar.CategoryEntry {
		return "受講開始面談"
	}
	return "講師面談"
}
