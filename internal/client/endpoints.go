package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jsvensson/varnamala/internal/color"
	"github.com/jsvensson/varnamala/internal/mapping"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

const (
	pathColors        = "/aryabhatta/colors"
	pathProcess       = "/aryabhatta/process_sentence"
	pathCalculate     = "/aryabhatta/calculate"
	pathMappings      = "/aryabhatta/get_mappings"
	pathAddMapping    = "/aryabhatta/add_mapping"
	pathClosest       = "/aryabhatta/closest_character"
	pathColorMappings = "/aryabhatta/color_mappings"
	pathRagas         = "/melakarta/melakarta-ragas"
)

// ClosestMatch is the character whose colour is nearest a query colour.
type ClosestMatch struct {
	Character string `json:"closest_character"`
	Shade     string `json:"colour_shade"`
	Sthana    string `json:"sthana"`
}

// ColorMapping is one row of the Devanagari colour scale.
type ColorMapping struct {
	ID         int    `json:"id"`
	Devanagari string `json:"devanagari_char"`
	R          int    `json:"color_r"`
	G          int    `json:"color_g"`
	B          int    `json:"color_b"`
	Hex        string `json:"color_hex"`
	Shade      string `json:"colour_shade"`
	Sthana     string `json:"sthana"`
}

// Color returns the row's colour, preferring the hex column and falling back
// to the RGB columns.
func (m ColorMapping) Color() color.Color {
	if c, err := color.ParseHex(m.Hex); err == nil {
		return c
	}
	return color.FromFloat(float64(m.R), float64(m.G), float64(m.B))
}

// Raga is one of the 72 melakarta ragas.
type Raga struct {
	Number           int    `json:"raga_number"`
	NameLatin        string `json:"raga_name_latin"`
	NameDevanagari   string `json:"raga_name_devanagari"`
	Classification   string `json:"classification"`
	SwarasLatin      string `json:"swaras_latin"`
	SwarasDevanagari string `json:"swaras_devanagari"`
	ColorRGB         string `json:"colour_rgb"`
}

// Colors fetches the character → hex colour table.
func (c *Client) Colors(ctx context.Context) (sankhya.ColorTable, error) {
	var table sankhya.ColorTable
	if err := c.getCached(ctx, pathColors, &table, nil); err != nil {
		return nil, fmt.Errorf("fetching colors: %w", err)
	}
	return table, nil
}

type processRequest struct {
	Word        string         `json:"word"`
	InputScript sankhya.Script `json:"inputScript"`
}

type processResponse struct {
	Tokens []map[string]sankhya.Word `json:"tokens"`
	Error  string                    `json:"error"`
}

// ProcessWord tokenizes one word. The service may split it into several
// tokens, which are returned in order.
func (c *Client) ProcessWord(ctx context.Context, word string, script sankhya.Script) ([]sankhya.Word, error) {
	var resp processResponse
	err := c.post(ctx, pathProcess, processRequest{Word: word, InputScript: script}, &resp)
	if err != nil {
		return nil, fmt.Errorf("processing %q: %w", word, err)
	}
	if resp.Tokens == nil {
		msg := resp.Error
		if msg == "" {
			msg = "an unknown error occurred"
		}
		return nil, fmt.Errorf("processing %q: %w", word, &APIError{Status: http.StatusOK, Message: msg})
	}

	var out []sankhya.Word
	for _, tok := range resp.Tokens {
		for name, w := range tok {
			w.Name = name
			out = append(out, w)
		}
	}
	return out, nil
}

// ProcessWords tokenizes each word in turn and concatenates the results. It
// stops at the first failure.
func (c *Client) ProcessWords(ctx context.Context, words []string, script sankhya.Script) ([]sankhya.Word, error) {
	var out []sankhya.Word
	for _, w := range words {
		tokens, err := c.ProcessWord(ctx, w, script)
		if err != nil {
			return nil, err
		}
		out = append(out, tokens...)
	}
	log.Infof("processed %d words into %d tokens", len(words), len(out))
	return out, nil
}

type calculateRequest struct {
	Tokens    []float64         `json:"tokens"`
	Operation sankhya.Operation `json:"operation"`
}

// Calculate applies op across the token values.
func (c *Client) Calculate(ctx context.Context, tokens []float64, op sankhya.Operation) (*sankhya.Calculation, error) {
	var calc sankhya.Calculation
	if err := c.post(ctx, pathCalculate, calculateRequest{Tokens: tokens, Operation: op}, &calc); err != nil {
		return nil, fmt.Errorf("calculating %s: %w", op, err)
	}
	return &calc, nil
}

// Mappings fetches the character-to-number tables.
func (c *Client) Mappings(ctx context.Context) (*mapping.Tables, error) {
	var tables mapping.Tables
	if err := c.getCached(ctx, pathMappings, &tables, nil); err != nil {
		return nil, fmt.Errorf("fetching mappings: %w", err)
	}
	return &tables, nil
}

type addMappingResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AddMapping asks the service to insert a character. On success the cached
// mappings are dropped.
func (c *Client) AddMapping(ctx context.Context, a mapping.Addition) error {
	var resp addMappingResponse
	if err := c.post(ctx, pathAddMapping, a, &resp); err != nil {
		return fmt.Errorf("adding mapping: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "failed to insert character"
		}
		return fmt.Errorf("adding mapping: %w", &APIError{Status: http.StatusOK, Message: msg})
	}
	c.cache.Delete(pathMappings)
	return nil
}

type closestRequest struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ClosestCharacter finds the character whose colour is nearest col.
func (c *Client) ClosestCharacter(ctx context.Context, col color.Color) (*ClosestMatch, error) {
	var match ClosestMatch
	req := closestRequest{R: int(col.R), G: int(col.G), B: int(col.B)}
	if err := c.post(ctx, pathClosest, req, &match); err != nil {
		return nil, fmt.Errorf("finding closest character to %s: %w", col.Hex(), err)
	}
	return &match, nil
}

type colorMappingsResponse struct {
	Success bool           `json:"success"`
	Data    []ColorMapping `json:"data"`
	Error   string         `json:"error"`
}

// ColorMappings fetches the Devanagari colour scale.
func (c *Client) ColorMappings(ctx context.Context) ([]ColorMapping, error) {
	var resp colorMappingsResponse
	succeeded := func() error {
		if !resp.Success {
			return &APIError{Status: http.StatusOK, Message: resp.Error}
		}
		return nil
	}
	if err := c.getCached(ctx, pathColorMappings, &resp, succeeded); err != nil {
		return nil, fmt.Errorf("fetching color mappings: %w", err)
	}
	return resp.Data, nil
}

// Ragas fetches the melakarta raga table.
func (c *Client) Ragas(ctx context.Context) ([]Raga, error) {
	var ragas []Raga
	if err := c.getCached(ctx, pathRagas, &ragas, nil); err != nil {
		return nil, fmt.Errorf("fetching ragas: %w", err)
	}
	return ragas, nil
}
