package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"FundLens/internal/calculator"
	"FundLens/internal/collector"
	"FundLens/internal/explorer"
	"FundLens/internal/notifier"
	"FundLens/internal/recorder"
	"FundLens/internal/watchlist"
)

// digestPeriods are the windows reported for each watched scheme.
var digestPeriods = []explorer.Period{explorer.Period1M, explorer.Period1Y}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Explorer  *explorer.Service
	Watchlist *watchlist.Manager
	Notifier  Sender
	Recorder  recorder.Recorder
	Ctx       context.Context
	log       zerolog.Logger
}

// NewScheduler creates a new Scheduler. A nil sender disables delivery.
func NewScheduler(ctx context.Context, svc *explorer.Service, wl *watchlist.Manager, sender Sender, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Explorer:  svc,
		Watchlist: wl,
		Notifier:  sender,
		Recorder:  rec,
		Ctx:       ctx,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the cache warm-up and the watchlist digest.
func (s *Scheduler) RegisterAll(warmupCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(warmupCron, s.warmupTask); err != nil {
		return fmt.Errorf("register warm-up task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunWarmupNow executes the warm-up task immediately.
func (s *Scheduler) RunWarmupNow() { s.warmupTask() }

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() { s.digestTask() }

// warmupTask fills the scheme directory and watched scheme histories in the cache.
func (s *Scheduler) warmupTask() {
	s.log.Info().Msg("running warm-up task")
	page, err := s.Explorer.SearchSchemes(s.Ctx, "", 1, 1)
	if err != nil {
		s.log.Error().Err(err).Msg("warm-up scheme list")
		return
	}
	warmed := 0
	for _, code := range s.Watchlist.List() {
		if _, err := s.Explorer.Scheme(s.Ctx, code); err != nil {
			s.log.Warn().Err(err).Int("code", code).Msg("warm-up scheme")
			continue
		}
		warmed++
	}
	s.log.Info().Int("schemes", page.Total).Int("watched", warmed).Msg("warm-up done")
}

func (s *Scheduler) digestTask() {
	s.log.Info().Msg("running digest task")
	text, lines, failures := s.buildDigest()
	delivered := s.trySend(text)

	if err := s.Recorder.RecordDigest(&recorder.DigestEvent{
		Schemes:   lines,
		Failures:  failures,
		Delivered: delivered,
		Note:      s.Explorer.Today().String(),
	}); err != nil {
		s.log.Error().Err(err).Msg("record digest")
	}
}

// buildDigest computes returns for every watched scheme, records them and
// renders the digest text.
func (s *Scheduler) buildDigest() (text string, schemes, failures int) {
	codes := s.Watchlist.List()
	lines := make([]notifier.DigestLine, 0, len(codes))

	for _, code := range codes {
		line := notifier.DigestLine{Code: code}
		details, err := s.Explorer.Scheme(s.Ctx, code)
		if err != nil {
			line.Err = describe(err)
			failures++
			lines = append(lines, line)
			continue
		}
		line.Name = details.Meta.SchemeName

		for _, p := range digestPeriods {
			res, err := s.Explorer.Returns(s.Ctx, code, explorer.ReturnsQuery{Period: string(p)})
			if err != nil {
				s.log.Debug().Err(err).Int("code", code).Str("period", string(p)).Msg("digest period skipped")
				continue
			}
			line.LatestNAV = res.EndPrice
			line.LatestDate = res.EndDate
			line.Returns = append(line.Returns, notifier.PeriodReturn{Label: p.Label(), Pct: res.AnnualizedReturnPct})

			if err := s.Recorder.RecordReturn(&recorder.ReturnSnapshot{
				SchemeCode:       code,
				SchemeName:       line.Name,
				Period:           p.Label(),
				StartDate:        res.StartDate.String(),
				EndDate:          res.EndDate.String(),
				StartNAV:         res.StartPrice,
				EndNAV:           res.EndPrice,
				SimpleReturn:     res.SimpleReturnPct,
				AnnualizedReturn: res.AnnualizedReturnPct,
			}); err != nil {
				s.log.Error().Err(err).Int("code", code).Msg("record return")
			}
		}
		if len(line.Returns) == 0 {
			line.Err = "no data available for this period"
			failures++
		}
		lines = append(lines, line)
	}

	return notifier.FormatDigest(s.Explorer.Today(), lines), len(lines), failures
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Group chats address commands as /cmd@botname.
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch cmd {
	case "/watch":
		code, ok := codeArg(args)
		if !ok {
			return "Usage: /watch &lt;code&gt;"
		}
		details, err := s.Explorer.Scheme(s.Ctx, code)
		if err != nil {
			return "❌ " + describe(err)
		}
		if len(details.Data) == 0 {
			return "❌ scheme not found"
		}
		added, err := s.Watchlist.Add(code)
		if err != nil {
			s.log.Error().Err(err).Msg("save watchlist")
			return "❌ could not save the watchlist"
		}
		if !added {
			return fmt.Sprintf("%d is already watched.", code)
		}
		return fmt.Sprintf("✅ Watching %d %s", code, details.Meta.SchemeName)
	case "/unwatch":
		code, ok := codeArg(args)
		if !ok {
			return "Usage: /unwatch &lt;code&gt;"
		}
		removed, err := s.Watchlist.Remove(code)
		if err != nil {
			s.log.Error().Err(err).Msg("save watchlist")
			return "❌ could not save the watchlist"
		}
		if !removed {
			return fmt.Sprintf("%d is not watched.", code)
		}
		return fmt.Sprintf("✅ Stopped watching %d", code)
	case "/list":
		codes := s.Watchlist.List()
		entries := make([]notifier.WatchEntry, 0, len(codes))
		for _, code := range codes {
			e := notifier.WatchEntry{Code: code}
			if details, err := s.Explorer.Scheme(s.Ctx, code); err == nil {
				e.Name = details.Meta.SchemeName
			}
			entries = append(entries, e)
		}
		return notifier.FormatWatchlist(entries)
	case "/returns":
		code, ok := codeArg(args)
		if !ok {
			return "Usage: /returns &lt;code&gt; [period]"
		}
		period := explorer.Period1Y
		if len(args) > 1 {
			p, err := explorer.ParsePeriod(args[1])
			if err != nil {
				return "❌ " + describe(err)
			}
			period = p
		}
		res, err := s.Explorer.Returns(s.Ctx, code, explorer.ReturnsQuery{Period: string(period)})
		if err != nil {
			return "❌ " + describe(err)
		}
		var schemeName string
		if details, err := s.Explorer.Scheme(s.Ctx, code); err == nil {
			schemeName = details.Meta.SchemeName
		}
		return notifier.FormatReturn(code, schemeName, period.Label(), res)
	case "/history":
		code, ok := codeArg(args)
		if !ok {
			return "Usage: /history &lt;code&gt;"
		}
		snaps, err := s.Recorder.RecentReturns(code, 10)
		if err != nil {
			s.log.Error().Err(err).Msg("read history")
			return "❌ could not read history"
		}
		return notifier.FormatHistory(code, snaps)
	case "/digest":
		s.digestTask()
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) bool {
	if s.Notifier == nil {
		s.log.Debug().Msg("no notifier configured, digest not sent")
		return false
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
		return false
	}
	return true
}

func codeArg(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	code, err := strconv.Atoi(args[0])
	return code, err == nil && code > 0
}

// describe turns an error into a short user-facing reason.
func describe(err error) string {
	var apiErr *collector.APIError
	if errors.As(err, &apiErr) {
		if apiErr.NotFound() {
			return "scheme not found"
		}
		return "NAV provider unavailable, please retry"
	}
	switch calculator.KindOf(err) {
	case calculator.KindNotFound, calculator.KindDataUnavailable:
		return "no data available for this period"
	case calculator.KindInvalidInput:
		var ce *calculator.Error
		if errors.As(err, &ce) && ce.Field != "" {
			return "invalid " + ce.Field
		}
		return "invalid input"
	case calculator.KindDivisionHazard:
		return "returns cannot be computed for this data"
	}
	return "something went wrong, please retry"
}
