package cue

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"binmerge/internal/logging"
)

// Parser turns CUE text into a Sheet.
//
// The zero value is ready to use. Bound violations (TRACK or INDEX ids above
// 99) skip the offending push and are collected in Warnings unless StrictIDs
// is set, in which case they abort the parse like any structural error.
type Parser struct {
	Logger    *slog.Logger
	StrictIDs bool

	// Warnings holds the skipped pushes of the most recent parse.
	Warnings []error

	// set while the lines belong to a TRACK that was skipped
	orphaned bool
}

// Parse reads CUE text from r with a default Parser.
func Parse(r io.Reader) (*Sheet, error) {
	var p Parser
	return p.Parse(r)
}

// Parse reads CUE text from r.
func (p *Parser) Parse(r io.Reader) (*Sheet, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cue text: %w", err)
	}
	return p.ParseLines(lines)
}

// ParseLines builds a Sheet from already split lines. Trailing carriage
// returns are ignored and blank lines are skipped. On error the returned
// sheet is nil.
func (p *Parser) ParseLines(lines []string) (*Sheet, error) {
	p.Warnings = nil
	p.orphaned = false
	sheet := New(p.Logger)
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := p.parseLine(sheet, line); err != nil {
			if IsWarning(err) && !p.StrictIDs {
				p.Warnings = append(p.Warnings, &ParseError{Line: i + 1, Text: line, Err: err})
				continue
			}
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
	}
	return sheet, nil
}

func (p *Parser) parseLine(sheet *Sheet, line string) error {
	switch ClassifyLine(line) {
	case LineFile:
		name, ok := quoted(line)
		if !ok {
			return fmt.Errorf("%w: FILE name is not quoted", ErrMalformedLine)
		}
		sheet.PushFile(name, lastWord(line))
		p.orphaned = false
		return nil

	case LineTrack:
		id, err := parseID(word(line, 2))
		if err != nil {
			return err
		}
		err = sheet.PushTrack(id, ParseTrackType(word(line, 3)))
		p.orphaned = IsWarning(err)
		return err

	case LineIndex:
		id, err := parseID(word(line, 2))
		if err != nil {
			return err
		}
		if p.orphaned {
			sheet.log().Warn("skipping INDEX of skipped TRACK", logging.Int("index", id))
			return fmt.Errorf("%w: INDEX %02d", ErrOrphanIndex, id)
		}
		track := sheet.LastTrack()
		if track == nil {
			return ErrNoTrack
		}
		offset, err := TimestampToBytes(word(line, 3), track.Type)
		if err != nil {
			return err
		}
		return sheet.PushIndex(id, offset)

	case LineRemark:
		return nil

	default:
		return fmt.Errorf("%w: unrecognised command %q", ErrMalformedLine, word(line, 1))
	}
}

func parseID(token string) (int, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: missing id", ErrMalformedLine)
	}
	id, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not a number", ErrMalformedLine, token)
	}
	return id, nil
}
