package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/tree"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherTree() *tree.Tree {
	wind := tree.NewInternal("Wind")
	wind.AddChild("Weak", tree.NewLeaf("Yes"), tree.Distribution{"Yes": 3})
	wind.AddChild("Strong", tree.NewLeaf("No"), tree.Distribution{"No": 2})
	root := tree.NewInternal("Outlook")
	root.AddChild("Overcast", tree.NewLeaf("Yes"), tree.Distribution{"Yes": 4})
	root.AddChild("Rain", wind, tree.Distribution{"No": 2, "Yes": 3})
	return tree.New("weather", "PlayTennis", []string{"No", "Yes"}, root)
}

func TestParseCriteria(t *testing.T) {
	c, err := parseCriteria("Outlook=Sunny, Wind=Weak")
	require.NoError(t, err)
	assert.Equal(t, feature.Criteria{"Outlook": "Sunny", "Wind": "Weak"}, c)

	c, err = parseCriteria("")
	require.NoError(t, err)
	assert.Empty(t, c)

	for _, s := range []string{"Outlook", "=Sunny"} {
		_, err = parseCriteria(s)
		assert.Error(t, err, s)
	}
}

func TestTestTree(t *testing.T) {
	records := []feature.Record{
		{"Outlook": "Overcast", "PlayTennis": "Yes"},
		{"Outlook": "Rain", "Wind": "Weak", "PlayTennis": "Yes"},
		{"Outlook": "Rain", "Wind": "Strong", "PlayTennis": "Yes"},
		{"Outlook": "Snow", "PlayTennis": "No"},
		{"Outlook": "Overcast", "PlayTennis": "No"},
	}
	var many []feature.Record
	for i := 0; i < 200; i++ {
		many = append(many, records[i%len(records)], records[(i*3)%len(records)])
	}
	ctx := context.Background()
	for _, rs := range [][]feature.Record{records, many} {
		expectedRate, expectedUnclassified, err := weatherTree().Test(ctx, rs)
		require.NoError(t, err)
		for _, workers := range []int{1, 2, 3, 7, 10} {
			rate, unclassified, err := testTree(ctx, weatherTree(), rs, workers)
			require.NoError(t, err)
			assert.Equal(t, expectedRate, rate, "%d workers over %d records", workers, len(rs))
			assert.Equal(t, expectedUnclassified, unclassified)
		}
	}

	_, _, err := testTree(ctx, weatherTree(), []feature.Record{{"Outlook": "Rain"}}, 2)
	assert.Error(t, err)
}

func TestKnownValues(t *testing.T) {
	known, err := knownValues(context.Background(), weatherTree())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"Outlook": {"Overcast", "Rain"},
		"Wind":    {"Weak", "Strong"},
	}, known)
}

func TestStoreConfigSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	l := newLogger(false)

	path := filepath.Join(t.TempDir(), "tree.json")
	sc := &storeConfig{treeFile: path}
	require.NoError(t, sc.Validate())
	require.NoError(t, sc.saveTree(ctx, l, weatherTree()))
	loaded, err := sc.loadTree(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, weatherTree().String(), loaded.String())

	sc = &storeConfig{store: "file", storeLocation: t.TempDir()}
	require.NoError(t, sc.Validate())
	require.NoError(t, sc.saveTree(ctx, l, weatherTree()))
	sc.name = "weather"
	loaded, err = sc.loadTree(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, "weather", loaded.ID)
}

func TestStoreConfigValidate(t *testing.T) {
	assert.Error(t, (&storeConfig{store: "s3", storeLocation: "x"}).Validate())
	assert.Error(t, (&storeConfig{store: "redis"}).Validate())
	assert.Error(t, (&storeConfig{store: "file", storeLocation: "x", treeFile: "t.json"}).Validate())
	assert.NoError(t, (&storeConfig{store: "badger", storeLocation: "x"}).Validate())
}

func TestConfigFromFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c45.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: PlayTennis\ncriterion: information-gain\n"), 0600))
	os.Setenv("C45_TABLE", "weather")
	defer os.Unsetenv("C45_TABLE")

	config := &rootCmdConfig{v: viper.New()}
	root := newRootCmd(config)
	grow, _, err := root.Find([]string{"grow"})
	require.NoError(t, err)
	require.NoError(t, grow.ParseFlags([]string{"--criterion", "gain-ratio", "--config", path}))
	require.NoError(t, config.load(grow.Flags()))

	assert.Equal(t, "PlayTennis", grow.Flags().Lookup("target").Value.String())
	assert.Equal(t, "gain-ratio", grow.Flags().Lookup("criterion").Value.String())
	assert.Equal(t, "weather", grow.Flags().Lookup("table").Value.String())
}

func TestConfigFileMissing(t *testing.T) {
	config := &rootCmdConfig{v: viper.New()}
	root := newRootCmd(config)
	show, _, err := root.Find([]string{"show"})
	require.NoError(t, err)
	require.NoError(t, show.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	assert.Error(t, config.load(show.Flags()))
}
