package c45

import (
	"context"
	"errors"
	"testing"

	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, cfg Config, criteria feature.Criteria) *tree.Tree {
	b, err := New(cfg)
	require.NoError(t, err)
	tr, err := b.Build(context.Background(), criteria)
	require.NoError(t, err)
	return tr
}

func TestNewConfigErrors(t *testing.T) {
	ds := weatherDataSource(t)
	tests := []struct {
		name   string
		cfg    Config
		option string
	}{
		{"missing target", Config{Criterion: InformationGain, Dataset: ds}, "target"},
		{"missing dataset", Config{Target: "PlayTennis", Criterion: InformationGain}, "dataset"},
		{"missing criterion", Config{Target: "PlayTennis", Dataset: ds}, "criterion"},
		{"unknown criterion", Config{Target: "PlayTennis", Dataset: ds, Criterion: Criterion(7)}, "criterion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.cfg)
			assert.Nil(t, b)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.option, ce.Option)
		})
	}
}

func TestParseCriterion(t *testing.T) {
	for name, expected := range map[string]Criterion{
		"information-gain": InformationGain,
		"gain":             InformationGain,
		"Gain-Ratio":       GainRatio,
		"ratio":            GainRatio,
	} {
		c, err := ParseCriterion(name)
		require.NoError(t, err)
		assert.Equal(t, expected, c, name)
	}
	_, err := ParseCriterion("gini")
	assert.Error(t, err)
	assert.Equal(t, "gain-ratio", GainRatio.String())
}

func TestBuildUnknownTarget(t *testing.T) {
	b, err := New(Config{Target: "Play", Criterion: InformationGain, Dataset: weatherDataSource(t)})
	require.NoError(t, err)
	tr, err := b.Build(context.Background(), nil)
	assert.Nil(t, tr)
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestBuildRejectsReservedClass(t *testing.T) {
	ds := memoryDataSource(t, []string{"a", "class"}, [][]string{{"x", "A"}, {"y", tree.Unclassified}})
	b, err := New(Config{Target: "class", Criterion: InformationGain, Dataset: ds})
	require.NoError(t, err)
	tr, err := b.Build(context.Background(), nil)
	assert.Nil(t, tr)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "target", ce.Option)
}

func TestBuildEmptyDataset(t *testing.T) {
	ds := memoryDataSource(t, []string{"a", "class"}, nil)
	b, err := New(Config{Target: "class", Criterion: InformationGain, Dataset: ds})
	require.NoError(t, err)
	_, err = b.Build(context.Background(), nil)
	assert.Equal(t, ErrEmptyDataset, err)
}

const weatherTree = `Outlook = Sunny
|	Humidity = High : No (3.0)
|	Humidity = Normal : Yes (2.0)
Outlook = Overcast : Yes (4.0)
Outlook = Rain
|	Wind = Weak : Yes (3.0)
|	Wind = Strong : No (2.0)
`

func TestBuildWeather(t *testing.T) {
	for _, c := range []Criterion{InformationGain, GainRatio} {
		t.Run(c.String(), func(t *testing.T) {
			tr := build(t, Config{Target: "PlayTennis", Criterion: c, Dataset: weatherDataSource(t)}, nil)
			root, ok := tr.Root.(*tree.Internal)
			require.True(t, ok)
			assert.Equal(t, "Outlook", root.Attribute)
			assert.Nil(t, root.Parent())
			assert.Equal(t, weatherTree, tr.String())
			assert.Equal(t, "PlayTennis", tr.Target)
			assert.Equal(t, []string{"No", "Yes"}, tr.Classes)
			assert.NotEmpty(t, tr.ID)
			assert.Equal(t, 2, tr.Depth())

			ctx := context.Background()
			for _, r := range toRecords(weatherAttributes, weatherRows) {
				class, err := tr.Classify(ctx, r)
				require.NoError(t, err)
				assert.Equal(t, r["PlayTennis"], class, "record %v", r)
			}
			class, err := tr.Classify(ctx, feature.Record{"Outlook": "Snow"})
			require.NoError(t, err)
			assert.Equal(t, tree.Unclassified, class)
		})
	}
}

func TestBuildPathsDoNotReuseAttributes(t *testing.T) {
	tr := build(t, Config{Target: "PlayTennis", Criterion: InformationGain, Dataset: weatherDataSource(t)}, nil)
	var leaves int
	err := tr.Traverse(context.Background(), false, func(_ context.Context, n tree.Node) error {
		if _, ok := n.(*tree.Leaf); !ok {
			return nil
		}
		leaves++
		seen := make(map[string]bool)
		for p := n.Parent(); p != nil; p = p.Parent() {
			assert.False(t, seen[p.Attribute], "attribute %s reused", p.Attribute)
			seen[p.Attribute] = true
		}
		assert.True(t, len(seen) <= len(weatherAttributes)-1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, leaves)
}

func TestBuildPerfectPredictor(t *testing.T) {
	attributes := []string{"noise", "key", "class"}
	rows := [][]string{
		{"n1", "k1", "A"},
		{"n2", "k1", "A"},
		{"n1", "k2", "B"},
		{"n2", "k2", "B"},
		{"n1", "k3", "C"},
		{"n1", "k3", "C"},
	}
	ds := memoryDataSource(t, attributes, rows)
	ctx := context.Background()
	s, err := NewStatistics(ctx, ds, "class")
	require.NoError(t, err)
	d, err := s.ClassDistribution(ctx, nil)
	require.NoError(t, err)
	gain, err := s.InformationGain(ctx, "key", nil)
	require.NoError(t, err)
	assert.InDelta(t, Entropy(d), gain, 1e-9)

	tr := build(t, Config{Target: "class", Criterion: InformationGain, Dataset: ds}, nil)
	root, ok := tr.Root.(*tree.Internal)
	require.True(t, ok)
	assert.Equal(t, "key", root.Attribute)
	assert.Equal(t, []string{"k1", "k2", "k3"}, root.Values)
	for v, expected := range map[string]string{"k1": "A", "k2": "B", "k3": "C"} {
		leaf, ok := root.Children[v].(*tree.Leaf)
		require.True(t, ok, "child for %s is not a leaf", v)
		assert.Equal(t, expected, leaf.Class)
		assert.Equal(t, root, leaf.Parent())
	}
}

func TestBuildTieBreakFollowsAttributeOrder(t *testing.T) {
	rows := [][]string{
		{"x", "x", "A"},
		{"y", "y", "B"},
		{"x", "x", "A"},
		{"y", "y", "B"},
	}
	tests := []struct {
		attributes []string
		expected   string
	}{
		{[]string{"first", "second", "class"}, "first"},
		{[]string{"second", "first", "class"}, "second"},
	}
	for _, tt := range tests {
		ds := memoryDataSource(t, tt.attributes, rows)
		tr := build(t, Config{Target: "class", Criterion: GainRatio, Dataset: ds}, nil)
		root, ok := tr.Root.(*tree.Internal)
		require.True(t, ok)
		assert.Equal(t, tt.expected, root.Attribute)
	}
}

func TestBuildTieBreakIsStableForIdenticalColumns(t *testing.T) {
	labels := map[string]string{"x": "p", "y": "q", "z": "r"}
	var rows [][]string
	for _, r := range [][2]string{
		{"x", "A"}, {"x", "A"}, {"x", "A"}, {"x", "B"}, {"x", "C"},
		{"y", "B"}, {"y", "B"}, {"y", "D"}, {"y", "A"},
		{"z", "C"}, {"z", "D"}, {"z", "D"}, {"z", "D"}, {"z", "A"}, {"z", "B"},
	} {
		rows = append(rows, []string{r[0], labels[r[0]], r[1]})
	}
	tests := []struct {
		attributes []string
		expected   string
	}{
		{[]string{"a", "b", "class"}, "a"},
		{[]string{"b", "a", "class"}, "b"},
	}
	for _, tt := range tests {
		for _, c := range []Criterion{InformationGain, GainRatio} {
			ds := memoryDataSource(t, tt.attributes, rows)
			for i := 0; i < 50; i++ {
				tr := build(t, Config{Target: "class", Criterion: c, Dataset: ds}, nil)
				root, ok := tr.Root.(*tree.Internal)
				require.True(t, ok)
				require.Equal(t, tt.expected, root.Attribute, "%s build %d with order %v", c, i, tt.attributes)
			}
		}
	}
}

func TestBuildPureDatasetReturnsLeaf(t *testing.T) {
	ds := memoryDataSource(t, []string{"a", "class"}, [][]string{{"x", "A"}, {"y", "A"}})
	tr := build(t, Config{Target: "class", Criterion: InformationGain, Dataset: ds}, nil)
	leaf, ok := tr.Root.(*tree.Leaf)
	require.True(t, ok)
	assert.Equal(t, "A", leaf.Class)
	assert.Equal(t, "class : A\n", tr.String())
}

func TestBuildPureCriteriaReturnsLeaf(t *testing.T) {
	tr := build(t, Config{Target: "PlayTennis", Criterion: InformationGain, Dataset: weatherDataSource(t)}, feature.Criteria{"Outlook": "Overcast"})
	leaf, ok := tr.Root.(*tree.Leaf)
	require.True(t, ok)
	assert.Equal(t, "Yes", leaf.Class)
}

func TestBuildInitialCriteriaExcludeAttributes(t *testing.T) {
	tr := build(t, Config{Target: "PlayTennis", Criterion: InformationGain, Dataset: weatherDataSource(t)}, feature.Criteria{"Outlook": "Sunny"})
	root, ok := tr.Root.(*tree.Internal)
	require.True(t, ok)
	assert.Equal(t, "Humidity", root.Attribute)
}

func TestBuildNoAttributesLeft(t *testing.T) {
	ds := memoryDataSource(t, []string{"class"}, [][]string{{"B"}, {"A"}, {"A"}})
	tr := build(t, Config{Target: "class", Criterion: InformationGain, Dataset: ds}, nil)
	leaf, ok := tr.Root.(*tree.Leaf)
	require.True(t, ok)
	assert.Equal(t, "A", leaf.Class)
}

func TestBuildExhaustionAndEmptyPartitionLeaves(t *testing.T) {
	attributes := []string{"x", "y", "class"}
	rows := [][]string{
		{"1", "q", "B"},
		{"1", "q", "B"},
		{"1", "q", "A"},
		{"2", "p", "A"},
		{"2", "p", "B"},
		{"2", "p", "A"},
	}
	ds := memoryDataSource(t, attributes, rows)
	tr := build(t, Config{Target: "class", Criterion: InformationGain, Dataset: ds}, feature.Criteria{"x": "2"})
	root, ok := tr.Root.(*tree.Internal)
	require.True(t, ok)
	assert.Equal(t, "y", root.Attribute)
	assert.Equal(t, []string{"q", "p"}, root.Values)

	// y = q has no records with x = 2: its label comes from all
	// records with y = q.
	empty, ok := root.Children["q"].(*tree.Leaf)
	require.True(t, ok)
	assert.Equal(t, "B", empty.Class)
	assert.Equal(t, 0, root.Distributions["q"].Total())

	// y = p is impure and no attributes are left: majority under x = 2, y = p.
	exhausted, ok := root.Children["p"].(*tree.Leaf)
	require.True(t, ok)
	assert.Equal(t, "A", exhausted.Class)
	assert.Equal(t, tree.Distribution{"A": 2, "B": 1}, root.Distributions["p"])

	assert.Equal(t, "y = q : B (0.0)\ny = p : A (2.0/3.0)\n", tr.String())
}

func TestBuildDataAccessError(t *testing.T) {
	for _, n := range []int{0, 1, 5, 20} {
		ds := &failingDataSource{DataSource: weatherDataSource(t), n: n}
		b, err := New(Config{Target: "PlayTennis", Criterion: InformationGain, Dataset: ds})
		require.NoError(t, err)
		tr, err := b.Build(context.Background(), nil)
		assert.Nil(t, tr)
		var dae *DataAccessError
		require.ErrorAs(t, err, &dae, "failing after %d counts", n)
		assert.Equal(t, "count", dae.Op)
		assert.True(t, errors.Is(err, errBackend))
	}
}

func TestBuildCancelled(t *testing.T) {
	b, err := New(Config{Target: "PlayTennis", Criterion: InformationGain, Dataset: weatherDataSource(t)})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Build(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBuildMetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	build(t, Config{Target: "PlayTennis", Criterion: InformationGain, Dataset: weatherDataSource(t), Logger: logger, Metrics: m}, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Trees.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Internal))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.Leaves.WithLabelValues(stopPure)))

	var splits []string
	for _, e := range hook.AllEntries() {
		if e.Message == "splitting node" {
			splits = append(splits, e.Data["attribute"].(string))
		}
	}
	assert.Equal(t, []string{"Outlook", "Humidity", "Wind"}, splits)
}
