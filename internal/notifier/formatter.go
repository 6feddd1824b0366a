package notifier

import (
	"fmt"
	"html"
	"strings"

	"FundLens/internal/calendar"
	"FundLens/internal/model"
	"FundLens/internal/recorder"
)

// PeriodReturn is one labelled return shown in a digest line.
type PeriodReturn struct {
	Label string
	Pct   float64
}

// DigestLine is one watched scheme in the daily digest.
type DigestLine struct {
	Code       int
	Name       string
	LatestNAV  float64
	LatestDate calendar.Date
	Returns    []PeriodReturn
	Err        string
}

// WatchEntry is a watched scheme code with its display name, if known.
type WatchEntry struct {
	Code int
	Name string
}

// FormatDigest renders the watchlist digest.
func FormatDigest(date calendar.Date, lines []DigestLine) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>FundLens digest</b> | %s\n", date))

	if len(lines) == 0 {
		b.WriteString("\nWatchlist is empty. Add a scheme with /watch &lt;code&gt;")
		return b.String()
	}

	for _, l := range lines {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> (%d)\n", name(l.Name, l.Code), l.Code))
		if l.Err != "" {
			b.WriteString(fmt.Sprintf("  ⚠️ %s\n", html.EscapeString(l.Err)))
			continue
		}
		if l.LatestNAV > 0 {
			b.WriteString(fmt.Sprintf("  NAV %.4f on %s\n", l.LatestNAV, l.LatestDate))
		}
		parts := make([]string, 0, len(l.Returns))
		for _, r := range l.Returns {
			parts = append(parts, fmt.Sprintf("%s %+.2f%%", r.Label, r.Pct))
		}
		if len(parts) > 0 {
			b.WriteString("  " + strings.Join(parts, " | ") + "\n")
		}
	}
	return b.String()
}

// FormatReturn renders a single point-to-point return.
func FormatReturn(code int, schemeName, label string, r *model.ReturnResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s</b> (%d) | %s\n\n", name(schemeName, code), code, label))
	b.WriteString(fmt.Sprintf("%s: %.4f\n", r.StartDate, r.StartPrice))
	b.WriteString(fmt.Sprintf("%s: %.4f\n", r.EndDate, r.EndPrice))
	b.WriteString(fmt.Sprintf("Return: %+.2f%%\n", r.SimpleReturnPct))
	if r.AnnualizedReturnPct != r.SimpleReturnPct {
		b.WriteString(fmt.Sprintf("Annualized: %+.2f%%\n", r.AnnualizedReturnPct))
	}
	return b.String()
}

// FormatWatchlist lists watched schemes.
func FormatWatchlist(entries []WatchEntry) string {
	if len(entries) == 0 {
		return "👀 Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👀 <b>Watchlist</b> (%d)\n\n", len(entries)))
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("• %d %s\n", e.Code, html.EscapeString(e.Name)))
	}
	return b.String()
}

// FormatHistory renders recorded snapshots, newest first.
func FormatHistory(code int, snaps []recorder.ReturnSnapshot) string {
	if len(snaps) == 0 {
		return fmt.Sprintf("No recorded returns for %d yet.", code)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s</b> (%d) history\n\n", name(snaps[0].SchemeName, code), code))
	for _, s := range snaps {
		b.WriteString(fmt.Sprintf("%s  %s %+.2f%%\n", s.RecordedAt.Format("2006-01-02"), s.Period, s.AnnualizedReturn))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /watch &lt;code&gt;\n" +
		"• /unwatch &lt;code&gt;\n" +
		"• /list\n" +
		"• /returns &lt;code&gt; [1m|3m|6m|1y|3y|5y]\n" +
		"• /history &lt;code&gt;\n" +
		"• /digest"
}

func name(n string, code int) string {
	if n == "" {
		return fmt.Sprintf("Scheme %d", code)
	}
	return html.EscapeString(n)
}
