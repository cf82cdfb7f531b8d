package thirdparty

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	"github.com/rs/zerolog"
)

const (
	// UnknownCardData is returned for content keys without data
	UnknownCardData = "No data for this card."
	// DefaultCardStyle is returned for content keys without a style
	DefaultCardStyle = "{'color': 'black', 'font': 'normal'}"
)

// MockAPI stands in for the group, card data and card style services
type MockAPI struct {
	mu     sync.RWMutex
	groups map[string][]string
	data   map[string]string
	styles map[string]string
	logger zerolog.Logger
}

// NewMockAPI creates a mock preloaded with sample projects and cards
func NewMockAPI(logger zerolog.Logger) *MockAPI {
	return &MockAPI{
		groups: map[string][]string{
			"PROJ001": {"PROJ001_1001", "PROJ001_1002", "PROJ001_1003"},
			"PROJ002": {"PROJ002_2001", "PROJ002_2002"},
			"PROJ003": {"PROJ003_3001"},
		},
		data: map[string]string{
			cardentities.StudyReportCard:        "Your weekly study report is ready: 85% complete, great progress!",
			cardentities.GradeAssessmentCard:    "Midterm assessment: Math A, Literature B+. Keep it up.",
			cardentities.PlanProgressCard:       "Monthly plan progress: 70% done, please follow up on the remaining tasks.",
			cardentities.DailyFocusCard:         "Today's focus: the latest education policy explained.",
			cardentities.TeachingAidProcurement: "Teaching aid order S20240725 has shipped and should arrive within 3 days.",
		},
		styles: map[string]string{
			cardentities.StudyReportCard:        "{'color': 'blue', 'font': 'bold'}",
			cardentities.GradeAssessmentCard:    "{'color': 'red', 'font': 'italic'}",
			cardentities.PlanProgressCard:       "{'color': 'green', 'font': 'normal'}",
			cardentities.DailyFocusCard:         "{'color': 'purple', 'font': 'underline'}",
			cardentities.TeachingAidProcurement: "{'color': 'orange', 'font': 'small'}",
		},
		logger: logger,
	}
}

// GroupIDs returns the "{projectCode}_{userId}" groups of a project
func (m *MockAPI) GroupIDs(ctx context.Context, projectCode string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.logger.Debug().Str("project_code", projectCode).Msg("group lookup")
	return append([]string(nil), m.groups[projectCode]...), nil
}

// CardData returns the current payload of a card
func (m *MockAPI) CardData(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.logger.Debug().Str("content", content).Msg("card data lookup")

	if content == cardentities.StudyReportCard {
		return fmt.Sprintf("Your weekly study report is ready: %d%% complete, great progress!", 80+rand.IntN(20)), nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, ok := m.data[content]; ok {
		return data, nil
	}
	return UnknownCardData, nil
}

// CardStyle returns the display style of a card
func (m *MockAPI) CardStyle(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if style, ok := m.styles[content]; ok {
		return style, nil
	}
	return DefaultCardStyle, nil
}

// SetGroups replaces the groups of a project
func (m *MockAPI) SetGroups(projectCode string, groupIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[projectCode] = append([]string(nil), groupIDs...)
}

// SetCardData replaces the payload of a card
func (m *MockAPI) SetCardData(content, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[content] = data
}
