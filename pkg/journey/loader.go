// ABOUTME: Loads the bundled journey JSON files into a Dataset
// ABOUTME: Validates every record on load and reports all violations together

package journey

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File names inside the data directory
const (
	EpisodesFile = "journey_episodes.json"
	ChatsFile    = "all_chats.json"
	DecisionsDir = "decisions"
)

// LoadDataset reads episodes and chats from dir.
func LoadDataset(dir string) (*Dataset, error) {
	episodes, err := loadFile(filepath.Join(dir, EpisodesFile), DecodeEpisodes)
	if err != nil {
		return nil, err
	}
	chats, err := loadFile(filepath.Join(dir, ChatsFile), DecodeChats)
	if err != nil {
		return nil, err
	}
	return NewDataset(episodes, chats), nil
}

func loadFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// DecodeEpisodes decodes and validates an episode list.
func DecodeEpisodes(r io.Reader) ([]Episode, error) {
	var episodes []Episode
	if err := json.NewDecoder(r).Decode(&episodes); err != nil {
		return nil, fmt.Errorf("%w: decode episodes: %v", ErrDataFormat, err)
	}

	var errs []error
	for i, ep := range episodes {
		if ep.Title == "" {
			errs = append(errs, fmt.Errorf("%w: episode[%d]: missing title", ErrDataFormat, i))
		}
		if ep.DateRange == "" {
			errs = append(errs, fmt.Errorf("%w: episode[%d]: missing date_range", ErrDataFormat, i))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return episodes, nil
}

// DecodeChats decodes and validates a chat list.
func DecodeChats(r io.Reader) ([]ChatMessage, error) {
	var chats []ChatMessage
	if err := json.NewDecoder(r).Decode(&chats); err != nil {
		return nil, fmt.Errorf("%w: decode chats: %v", ErrDataFormat, err)
	}

	var errs []error
	for i, c := range chats {
		switch {
		case c.ID == "":
			errs = append(errs, fmt.Errorf("%w: chat[%d]: missing id", ErrDataFormat, i))
		case c.Sender == "":
			errs = append(errs, fmt.Errorf("%w: chat %s: missing sender", ErrDataFormat, c.ID))
		case c.Role == "":
			errs = append(errs, fmt.Errorf("%w: chat %s: missing role", ErrDataFormat, c.ID))
		}
		if _, err := ParseTimestamp(c.Timestamp); err != nil {
			errs = append(errs, fmt.Errorf("chat[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return chats, nil
}

// DecodeDecisionTrace decodes a single decision document.
func DecodeDecisionTrace(r io.Reader) (*DecisionTrace, error) {
	var trace DecisionTrace
	if err := json.NewDecoder(r).Decode(&trace); err != nil {
		return nil, fmt.Errorf("%w: decode decision trace: %v", ErrLoad, err)
	}
	if trace.DecisionID == "" {
		return nil, fmt.Errorf("%w: decision trace: missing decision_id", ErrLoad)
	}
	return &trace, nil
}
