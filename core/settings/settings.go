// Package settings holds per-user UI preferences.
package settings

import (
	"context"
	"fmt"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	MinFontSize = 8
	MaxFontSize = 32
)

type Editor struct {
	FontSize  int  `json:"fontSize"`
	WrapLines bool `json:"wrapLines"`
}

type Settings struct {
	Theme           Theme              `json:"theme"`
	Notifications   bool               `json:"notifications"`
	DefaultTaskType tasksrepo.Type     `json:"defaultTaskType"`
	DefaultPriority tasksrepo.Priority `json:"defaultPriority"`
	Editor          Editor             `json:"editor"`
}

// Defaults returns the settings of a user who never saved any.
func Defaults() Settings {
	return Settings{
		Theme:           ThemeLight,
		Notifications:   true,
		DefaultTaskType: tasksrepo.TypeTodo,
		DefaultPriority: tasksrepo.PriorityMedium,
		Editor: Editor{
			FontSize:  14,
			WrapLines: false,
		},
	}
}

// Validate rejects unknown enum values and out of range sizes.
func (s Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%w: unknown theme %q", repositories.ErrInvalidInput, s.Theme)
	}
	if !s.DefaultTaskType.Valid() {
		return fmt.Errorf("%w: unknown task type %q", repositories.ErrInvalidInput, s.DefaultTaskType)
	}
	if !s.DefaultPriority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", repositories.ErrInvalidInput, s.DefaultPriority)
	}
	if s.Editor.FontSize < MinFontSize || s.Editor.FontSize > MaxFontSize {
		return fmt.Errorf("%w: font size must be between %d and %d, got %d",
			repositories.ErrInvalidInput, MinFontSize, MaxFontSize, s.Editor.FontSize)
	}
	return nil
}

// Store loads and saves settings per user.
type Store interface {
	Load(ctx context.Context, userID string) (Settings, error)
	Save(ctx context.Context, userID string, s Settings) error
}
