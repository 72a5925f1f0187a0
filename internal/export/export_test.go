package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"planner/internal/store"
)

func fixture() store.Snapshot {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return store.Snapshot{
		Tasks: []store.Task{
			{
				ID:          "t1",
				Title:       "Write report",
				Description: "Q2, final",
				DueDate:     time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
				Priority:    store.PriorityHigh,
				Category:    store.CategoryWork,
				CreatedAt:   time.Date(2024, 1, 1, 9, 30, 0, 250_000_000, time.UTC),
			},
			{
				ID:        "t2",
				Title:     `Say "hi"`,
				DueDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				Priority:  store.PriorityLow,
				Completed: true,
				Category:  store.CategoryPersonal,
				CreatedAt: time.Date(2024, 1, 1, 9, 31, 0, 0, time.UTC),
			},
		},
		Habits: []store.Habit{
			{ID: "h1", Title: "Meditate", Streak: 2, CompletedDates: []string{"2024-01-01", "2024-01-02"}, Category: store.CategoryHealth},
			{ID: "h2", Title: "Read", Streak: 0, CompletedDates: []string{}, Category: store.CategoryLearning},
		},
		Projects: []store.Project{
			{ID: "p1", Title: "Launch", Description: "v1 release", Progress: 40, DueDate: &due, Category: store.CategoryProject},
			{ID: "p2", Title: "Garden", Category: store.CategoryPersonal},
		},
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWrite_Golden(t *testing.T) {
	tests := []struct {
		name       string
		format     Format
		collection Collection
	}{
		{"tasks_json", FormatJSON, Tasks},
		{"tasks_csv", FormatCSV, Tasks},
		{"habits_csv", FormatCSV, Habits},
		{"projects_csv", FormatCSV, Projects},
		{"all_csv", FormatCSV, All},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, fixture(), tt.format, tt.collection))
			newGoldie(t).Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestWrite_YAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fixture(), FormatYAML, All))

	assert.Contains(t, buf.String(), "dueDate:")
	assert.Contains(t, buf.String(), "completedDates:")

	var back store.Snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, fixture(), back)
}

func TestWrite_EmptyCollectionIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, store.Snapshot{}, FormatJSON, Projects))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_CSVSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, store.Snapshot{}, FormatCSV, All))
	assert.Equal(t, "# tasks\n"+
		"id,title,description,dueDate,priority,completed,category,createdAt\n"+
		"\n# habits\n"+
		"id,title,streak,completedDates,category\n"+
		"\n# projects\n"+
		"id,title,description,progress,dueDate,category\n", buf.String())

	assert.Error(t, Write(&buf, fixture(), FormatCSV, Collection("notes")))
}

func TestParse(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("xml")
	assert.Error(t, err)

	c, err := ParseCollection("")
	require.NoError(t, err)
	assert.Equal(t, All, c)
	c, err = ParseCollection("Habits")
	require.NoError(t, err)
	assert.Equal(t, Habits, c)
	_, err = ParseCollection("notes")
	assert.Error(t, err)
}
