package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() map[string]interface{} {
	return map[string]interface{}{
		"user": map[string]interface{}{
			"name":    "Tester",
			"barcode": "11111",
		},
		"loans": []interface{}{
			map[string]interface{}{
				"dueDate": "2019-06-18T14:04:33.205Z",
				"item":    map[string]interface{}{"barcode": "22222"},
			},
			"plain",
			[]interface{}{true, nil},
		},
		"count": 2.0,
	}
}

func TestFlattenIsSortedAndComplete(t *testing.T) {
	leaves := Flatten(sampleTree())

	paths := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		paths = append(paths, leaf.Path.String())
	}

	assert.Equal(t, []string{
		"count",
		"loans[0].dueDate",
		"loans[0].item.barcode",
		"loans[1]",
		"loans[2][0]",
		"loans[2][1]",
		"user.barcode",
		"user.name",
	}, paths)
}

func TestPathHelpers(t *testing.T) {
	p := Path{Key("loans"), Index(3), Key("item"), Key("barcode")}

	assert.Equal(t, "loans[3].item.barcode", p.String())
	assert.Equal(t, "item.barcode", p.Short())

	last, ok := p.LastKey()
	assert.True(t, ok)
	assert.Equal(t, "barcode", last)

	suffixed, ok := p.WithSuffix("Image")
	assert.True(t, ok)
	assert.Equal(t, "loans[3].item.barcodeImage", suffixed.String())
	assert.Equal(t, "loans[3].item.barcode", p.String(), "receiver must not change")

	_, ok = Path{Key("dates"), Index(0)}.WithSuffix("Time")
	assert.False(t, ok)

	last, ok = Path{Key("dates"), Index(0), Index(1)}.LastKey()
	assert.True(t, ok)
	assert.Equal(t, "dates", last)

	assert.Equal(t, "user.name", Path{Key("user"), Key("name")}.Short())
}

func TestSetWritesIntoOriginalTree(t *testing.T) {
	tree := sampleTree()

	require.NoError(t, Set(tree, Path{Key("user"), Key("barcodeImage")}, "<img>"))
	require.NoError(t, Set(tree, Path{Key("loans"), Index(0), Key("item"), Key("barcodeImage")}, "<img2>"))
	require.NoError(t, Set(tree, Path{Key("loans"), Index(1)}, "replaced"))

	value, ok := Lookup(tree, Path{Key("user"), Key("barcodeImage")})
	assert.True(t, ok)
	assert.Equal(t, "<img>", value)

	item := tree["loans"].([]interface{})[0].(map[string]interface{})["item"].(map[string]interface{})
	assert.Equal(t, "<img2>", item["barcodeImage"])
	assert.Equal(t, "replaced", tree["loans"].([]interface{})[1])
}

func TestSetRejectsRoot(t *testing.T) {
	assert.Error(t, Set(sampleTree(), nil, "x"))
}

func TestLookupMissing(t *testing.T) {
	tree := sampleTree()

	_, ok := Lookup(tree, Path{Key("user"), Key("missing")})
	assert.False(t, ok)

	_, ok = Lookup(tree, Path{Key("loans"), Index(7)})
	assert.False(t, ok)

	_, ok = Lookup(tree, Path{Key("count"), Key("deeper")})
	assert.False(t, ok)
}

func TestCloneIsDeepAndNormalizes(t *testing.T) {
	original := map[string]interface{}{
		"items": []map[string]interface{}{
			{"barcode": "1"},
		},
		"tags":  []string{"a", "b"},
		"props": map[string]string{"k": "v"},
	}

	clone := Clone(original)
	items, ok := clone["items"].([]interface{})
	require.True(t, ok)

	items[0].(map[string]interface{})["barcode"] = "changed"
	assert.Equal(t, "1", original["items"].([]map[string]interface{})[0]["barcode"])
	assert.Equal(t, []interface{}{"a", "b"}, clone["tags"])
	assert.Equal(t, map[string]interface{}{"k": "v"}, clone["props"])

	assert.Equal(t, map[string]interface{}{}, Clone(nil))
}
