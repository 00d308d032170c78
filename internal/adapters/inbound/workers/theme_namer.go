package workers

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nickspeelman/reflect/internal/domain"
	"github.com/nickspeelman/reflect/internal/semantics"
	"github.com/nickspeelman/reflect/internal/usecases"
)

// ThemeNamer is a runnable that consumes themes still wearing the default
// label and asynchronously retries naming them through the generation
// backend. Naming failures are dropped: the theme keeps its default label
// until the next entry touches it and re-queues it.
type ThemeNamer struct {
	Logger              *log.Logger                     `resolve:""`
	Queue               usecases.UnlabeledThemeChannel  `resolve:""`
	Labeler             semantics.Labeler               `resolve:""`
	EntryRepository     domain.EntryRepository          `resolve:""`
	RenameThemeUseCase  usecases.RenameTheme            `resolve:""`
	Interval            time.Duration                   `config:"THEME_NAMER_BATCH_INTERVAL" default:"5s"`
	BatchSize           int                             `config:"THEME_NAMER_BATCH_SIZE" default:"16"`
	EvidencePageSize    int                             `config:"THEME_NAMER_EVIDENCE_PAGE_SIZE" default:"20"`
	workerExecutionChan chan struct{}
}

// Run starts the theme namer worker.
func (tn ThemeNamer) Run(ctx context.Context) error {
	tn.Logger.Println("ThemeNamer: running...")

	if tn.BatchSize <= 0 {
		tn.BatchSize = 16
	}
	if tn.Interval <= 0 {
		tn.Interval = 5 * time.Second
	}
	if tn.EvidencePageSize <= 0 {
		tn.EvidencePageSize = 20
	}

	ticker := time.NewTicker(tn.Interval)
	defer ticker.Stop()

	batch := map[uuid.UUID]domain.Theme{}

	for {
		select {
		case <-ctx.Done():
			tn.Logger.Println("ThemeNamer: stopped")
			return nil

		case theme := <-tn.Queue:
			batch[theme.ID] = theme
			if len(batch) >= tn.BatchSize {
				tn.flush(ctx, batch)
				batch = map[uuid.UUID]domain.Theme{}
			}

		case <-ticker.C:
			if len(batch) > 0 {
				tn.flush(ctx, batch)
				batch = map[uuid.UUID]domain.Theme{}
			}
		}
	}
}

// flush attempts to name every theme in the batch.
func (tn ThemeNamer) flush(ctx context.Context, batch map[uuid.UUID]domain.Theme) {
	tn.Logger.Printf("ThemeNamer: processing batch size=%d", len(batch))

	if tn.workerExecutionChan != nil {
		tn.workerExecutionChan <- struct{}{}
	}

	for _, theme := range batch {
		evidence := tn.collectEvidence(ctx, theme)
		if len(evidence) == 0 {
			continue
		}

		named, ok := tn.Labeler.LabelTheme(ctx, evidence)
		if !ok {
			continue
		}

		if err := tn.RenameThemeUseCase.Execute(ctx, theme.ID, named.Label); err != nil {
			// The theme may have been merged away since it was queued.
			tn.Logger.Printf("ThemeNamer: failed to rename theme %s: %v", theme.ID, err)
		}
	}
}

// collectEvidence gathers summaries of recent entries tagged with the theme,
// capped at the three sentences LabelTheme consumes.
func (tn ThemeNamer) collectEvidence(ctx context.Context, theme domain.Theme) []string {
	entries, _, err := tn.EntryRepository.ListEntries(ctx, 1, tn.EvidencePageSize)
	if err != nil {
		tn.Logger.Printf("ThemeNamer: failed to list entries for theme %s: %v", theme.ID, err)
		return nil
	}

	var evidence []string
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			if tag.ID == theme.ID && entry.Summary != "" {
				evidence = append(evidence, entry.Summary)
				break
			}
		}
		if len(evidence) == 3 {
			break
		}
	}
	return evidence
}
