package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/extract"
	"github.com/ewu-ics-cal/ewucal/internal/scraper"
)

// Converts a saved calendar detail page into an .ics file without touching the network.
//
//	go run ./scripts page.html
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: test-calendar <saved-detail-page.html>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening page: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	page, err := scraper.ParseDetailPage(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing page: %v\n", err)
		os.Exit(1)
	}

	res, err := extract.FromSourceLenient(page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting calendar: %v\n", err)
		os.Exit(1)
	}
	for _, rowErr := range res.Errors {
		fmt.Fprintf(os.Stderr, "skipped %v\n", rowErr)
	}

	icsContent := calendar.NewEmitter().ICS(res.Details, time.Now())

	// Write to file (owner read/write only)
	filename := calendar.FileName(res.Details)
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file: %s (%d entries)\n\n", filename, len(res.Details.Entries))
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
