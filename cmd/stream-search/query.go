package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/Sternrassler/twitch-stream-search/pkg/logging"
	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
)

var (
	totalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	pageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	nameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle = lipgloss.NewStyle().Faint(true)
)

// queryCommand creates the headless search command
func queryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Search once and print a page of results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "Search text",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to print (1-indexed)",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			lc := cfg.LoggingConfig()
			lc.Output = c.Root().ErrWriter
			if cfg.Log.File != "" {
				_, closer, err := logging.SetupFile(lc, cfg.Log.File)
				if err != nil {
					return err
				}
				defer closer.Close()
			} else {
				logging.Setup(lc)
			}

			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			if err := rt.startMetrics(ctx); err != nil {
				return err
			}

			return runQuery(ctx, rt.controller, c.String("query"), c.Int("page"), c.Root().Writer)
		},
	}
}

// pageCollector keeps the last page the controller reported. The
// controller calls it synchronously from runQuery's goroutine.
type pageCollector struct {
	streams      []twitch.Stream
	currentPage  int
	totalPages   int
	totalResults int
	errMessage   string
}

func (p *pageCollector) LoadingStarted() {}

func (p *pageCollector) PageReady(records []twitch.Stream, currentPage, totalPages, totalResults int) {
	p.streams = records
	p.currentPage = currentPage
	p.totalPages = totalPages
	p.totalResults = totalResults
	p.errMessage = ""
}

func (p *pageCollector) Error(message string) {
	p.errMessage = message
}

func (p *pageCollector) NavBoundary(pagination.Boundary) {}

// runQuery submits query and steps forward until page is shown or the last
// page is reached, then prints it.
func runQuery(
	ctx context.Context,
	newController func(pagination.Presenter[twitch.Stream]) *pagination.Controller[twitch.Stream],
	query string,
	page int,
	w io.Writer,
) error {
	if page < 1 {
		return fmt.Errorf("page must be at least 1 (got %d)", page)
	}

	collector := &pageCollector{}
	ctrl := newController(collector)

	ctrl.SubmitSearch(ctx, query)
	snap := ctrl.Snapshot()
	if snap.State == pagination.StateIdle {
		return errors.New("query must not be empty")
	}

	for snap.State == pagination.StateReady && snap.CurrentPage < page {
		ctrl.StepPage(ctx, +1)
		next := ctrl.Snapshot()
		if next.CurrentPage == snap.CurrentPage && next.State == pagination.StateReady {
			break
		}
		snap = next
	}

	if snap.State == pagination.StateError {
		return fmt.Errorf("search failed: %s", collector.errMessage)
	}

	printPage(w, collector, snap, page)
	return nil
}

func printPage(w io.Writer, p *pageCollector, snap pagination.Snapshot, requested int) {
	fmt.Fprintln(w, totalStyle.Render(fmt.Sprintf("Total Results: %d", p.totalResults)))
	fmt.Fprintln(w, pageStyle.Render(fmt.Sprintf("Page %d/%d", p.currentPage, p.totalPages)))
	if requested > p.totalPages {
		fmt.Fprintln(w, detailStyle.Render(fmt.Sprintf("(page %d requested, only %d available)", requested, p.totalPages)))
	}
	fmt.Fprintln(w)

	if len(p.streams) == 0 {
		fmt.Fprintln(w, "No streams found")
		return
	}

	first := (p.currentPage-1)*snap.PageSize + 1
	for i, s := range p.streams {
		name := s.Channel.DisplayName
		if name == "" {
			name = s.Channel.Name
		}
		fmt.Fprintf(w, "%3d. %s  %s\n", first+i, nameStyle.Render(name), infoStyle.Render(s.Summary()))
		if s.Channel.Description != "" {
			fmt.Fprintf(w, "     %s\n", s.Channel.Description)
		}
		if s.Channel.URL != "" {
			fmt.Fprintf(w, "     %s\n", detailStyle.Render(s.Channel.URL))
		}
	}
}
