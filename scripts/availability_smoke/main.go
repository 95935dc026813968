// Command availability_smoke drives a running server through the instructor
// flow: login, load a week, select cells, save, optionally confirm.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/andrino-academy/andrino-api/internal/calendar"
	"github.com/andrino-academy/andrino-api/internal/client"
	"github.com/andrino-academy/andrino-api/internal/models"
)

type step struct {
	Name     string
	Err      error
	Duration time.Duration
	Detail   string
}

func main() {
	var (
		baseURL  string
		email    string
		password string
		trackID  string
		week     string
		cells    string
		confirm  bool
		timeout  time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080/api", "API base URL including prefix")
	flag.StringVar(&email, "email", "", "Instructor email")
	flag.StringVar(&password, "password", "", "Instructor password")
	flag.StringVar(&trackID, "track", "", "Track ID (defaults to the first assigned track)")
	flag.StringVar(&week, "week", models.FormatDate(time.Now().UTC()), "Any date inside the target week")
	flag.StringVar(&cells, "cells", "1:13,1:14", "Comma separated day:hour cells to select")
	flag.BoolVar(&confirm, "confirm", false, "Confirm the week after saving")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-step timeout")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("-email and -password are required")
	}
	selection, err := parseCells(cells)
	if err != nil {
		log.Fatalf("invalid -cells: %v", err)
	}

	logr, _ := zap.NewDevelopment()
	defer logr.Sync() //nolint:errcheck

	api := client.New(baseURL)
	cal := calendar.New(api, calendar.WithLogger(logr), calendar.WithStaleCheck())

	var steps []step
	run := func(name string, fn func(ctx context.Context) (string, error)) bool {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		detail, err := fn(ctx)
		steps = append(steps, step{Name: name, Err: err, Duration: time.Since(start), Detail: detail})
		return err == nil
	}

	ok := run("login", func(ctx context.Context) (string, error) {
		res, err := api.Login(ctx, email, password)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (%s)", res.User.FullName, res.User.Role), nil
	})
	ok = ok && run("resolve track", func(ctx context.Context) (string, error) {
		if trackID != "" {
			return trackID, nil
		}
		tracks, err := api.Tracks(ctx, true)
		if err != nil {
			return "", err
		}
		if len(tracks) == 0 {
			return "", errors.New("no tracks assigned to this instructor")
		}
		trackID = tracks[0].ID
		return fmt.Sprintf("%s (%s)", tracks[0].Name, trackID), nil
	})
	ok = ok && run("load", func(ctx context.Context) (string, error) {
		if err := cal.Initialize(ctx, trackID, week); err != nil {
			return "", err
		}
		counts := cal.Counts()
		return fmt.Sprintf("week %s: %d selected, %d confirmed, %d booked", cal.WeekStartDate(), counts.Selected, counts.Confirmed, counts.Booked), nil
	})
	ok = ok && run("select", func(ctx context.Context) (string, error) {
		for _, c := range selection {
			cell, found := cal.Cell(c[0], c[1])
			if !found {
				return "", fmt.Errorf("cell %d:%d is outside the grid", c[0], c[1])
			}
			if !cell.IsSelected {
				cal.Toggle(c[0], c[1])
			}
		}
		return fmt.Sprintf("%d pending", len(cal.Pending())), nil
	})
	ok = ok && run("save", func(ctx context.Context) (string, error) {
		res, err := cal.Save(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("created %d, removed %d, unchanged %d, skipped %d", res.Created, res.Removed, res.Unchanged, res.Skipped), nil
	})
	if ok && confirm {
		run("confirm", func(ctx context.Context) (string, error) {
			count, err := cal.Confirm(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d slots confirmed", count), nil
		})
	}

	failed := printReport(steps)
	if failed > 0 {
		os.Exit(1)
	}
}

func parseCells(raw string) ([][2]int, error) {
	var out [][2]int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, hour, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("%q is not day:hour", part)
		}
		d, err := strconv.Atoi(day)
		if err != nil {
			return nil, fmt.Errorf("day in %q: %w", part, err)
		}
		h, err := strconv.Atoi(hour)
		if err != nil {
			return nil, fmt.Errorf("hour in %q: %w", part, err)
		}
		out = append(out, [2]int{d, h})
	}
	if len(out) == 0 {
		return nil, errors.New("no cells given")
	}
	return out, nil
}

func printReport(steps []step) int {
	fmt.Println("Availability Smoke Report")
	fmt.Println("=========================")
	failed := 0
	for _, s := range steps {
		status := "OK"
		if s.Err != nil {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s (%s)\n", status, s.Name, s.Duration.Round(time.Millisecond))
		if s.Err != nil {
			fmt.Printf("  Error: %v\n", s.Err)
		} else if s.Detail != "" {
			fmt.Printf("  %s\n", s.Detail)
		}
	}
	return failed
}
