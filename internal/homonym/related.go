package homonym

import (
	"strings"

	"github.com/gcbaptista/go-dream-engine/model"
)

// relatedCluster is a set of words that, when present, support the sense of
// an ambiguous word whose category is the cluster's category.
type relatedCluster struct {
	Category model.Category
	Words    []string
}

// relatedClusters is keyed by ambiguous word.
var relatedClusters = map[string]relatedCluster{
	"눈": {Category: model.CategoryWeather, Words: []string{"밤", "별", "하늘"}},
	"밤": {Category: model.CategoryTime, Words: []string{"눈", "별", "달", "하늘"}},
	"별": {Category: model.CategoryNature, Words: []string{"밤", "눈", "하늘", "달"}},
}

// relatedBonus returns the cluster word found in text when word has a cluster
// whose category matches the sense category.
func relatedBonus(word string, category model.Category, text string) (string, bool) {
	cluster, ok := relatedClusters[word]
	if !ok || category != cluster.Category {
		return "", false
	}
	for _, w := range cluster.Words {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}
