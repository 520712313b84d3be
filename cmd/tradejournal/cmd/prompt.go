package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/rustyeddy/tradejournal/journal"
)

func validDate(val interface{}) error {
	if _, err := time.Parse(journal.DateLayout, strings.TrimSpace(val.(string))); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// validNumber accepts an empty answer when optional is set.
func validNumber(optional bool) survey.Validator {
	return func(val interface{}) error {
		s := strings.TrimSpace(val.(string))
		if s == "" && optional {
			return nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		return nil
	}
}

func ask(p survey.Prompt, dst interface{}, opts ...survey.AskOpt) error {
	if err := survey.AskOne(p, dst, opts...); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

func askNumber(msg string, optional bool) (string, error) {
	var s string
	err := ask(&survey.Input{Message: msg}, &s, survey.WithValidator(validNumber(optional)))
	return strings.TrimSpace(s), err
}

// choose offers the configured tags; an empty list falls back to free text.
func choose(msg string, options []string) (string, error) {
	var s string
	if len(options) == 0 {
		err := ask(&survey.Input{Message: msg}, &s, survey.WithValidator(survey.Required))
		return s, err
	}
	err := ask(&survey.Select{Message: msg, Options: options}, &s)
	return s, err
}

// promptTrade fills rec from interactive answers.
func promptTrade(rec *journal.TradeRecord) error {
	cfg := app.cfg

	var date string
	if err := ask(&survey.Input{
		Message: "Trade date (YYYY-MM-DD):",
		Default: time.Now().Format(journal.DateLayout),
	}, &date, survey.WithValidator(validDate)); err != nil {
		return err
	}
	rec.Date = strings.TrimSpace(date)

	var err error
	if rec.Pair, err = choose("Instrument:", cfg.Pairs()); err != nil {
		return err
	}

	var dir string
	if err := ask(&survey.Select{Message: "Direction:", Options: []string{"long", "short"}}, &dir); err != nil {
		return err
	}
	rec.Direction = journal.Direction(dir)

	if rec.Strategy, err = choose("Strategy:", cfg.Strategies); err != nil {
		return err
	}
	if rec.Timeframe, err = choose("Timeframe:", cfg.Timeframes); err != nil {
		return err
	}

	numbers := []struct {
		msg string
		dst *journal.Number
	}{
		{"Lots:", &rec.Lots},
		{"Entry price:", &rec.Entry},
		{"Stop-loss price:", &rec.Stop},
	}
	for _, n := range numbers {
		s, err := askNumber(n.msg, false)
		if err != nil {
			return err
		}
		*n.dst = journal.ParseNumber(s)
	}
	target, err := askNumber("Take-profit price (optional):", true)
	if err != nil {
		return err
	}
	if target != "" {
		rec.Target = journal.ParseNumber(target).Ptr()
	}

	var status string
	if err := ask(&survey.Select{Message: "Status:", Options: []string{"closed", "open"}}, &status); err != nil {
		return err
	}
	rec.Status = journal.Status(status)

	if rec.IsClosed() {
		exit, err := askNumber("Exit price:", false)
		if err != nil {
			return err
		}
		gross, err := askNumber("Gross P&L:", false)
		if err != nil {
			return err
		}
		swap, err := askNumber("Swap (optional):", true)
		if err != nil {
			return err
		}
		rec.ExitPrice = journal.ParseNumber(exit).Ptr()
		rec.GrossPnL = journal.ParseNumber(gross).Ptr()
		rec.Swap = journal.ParseNumber(swap)

		if rec.Score, err = choose("Execution score:", cfg.Scores); err != nil {
			return err
		}
	}

	if rec.Emotion, err = choose("Emotional state:", cfg.Emotions); err != nil {
		return err
	}
	return ask(&survey.Multiline{Message: "Notes:"}, &rec.Notes)
}
