package store

import (
	"bytes"

	"github.com/google/btree"
)

const treeDegree = 8

// item is a single btree entry. A removed item marks a key deleted in a
// cache wrap, so that the parent value is hidden.
type item struct {
	key     []byte
	value   []byte
	removed bool
}

var _ btree.Item = item{}

func (i item) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(item).key) < 0
}

// tree is an ordered set of items.
type tree struct {
	bt *btree.BTree
}

func newTree() tree {
	return tree{bt: btree.New(treeDegree)}
}

func (t tree) get(key []byte) (item, bool) {
	res := t.bt.Get(item{key: key})
	if res == nil {
		return item{}, false
	}
	return res.(item), true
}

func (t tree) put(it item) {
	t.bt.ReplaceOrInsert(it)
}

func (t tree) remove(key []byte) {
	t.bt.Delete(item{key: key})
}

// slice returns a copy of all items within the [start, end) range in
// ascending order. A nil start or end leaves the range open.
func (t tree) slice(start, end []byte) []item {
	var res []item
	collect := func(i btree.Item) bool {
		res = append(res, i.(item))
		return true
	}
	switch {
	case start == nil && end == nil:
		t.bt.Ascend(collect)
	case start == nil:
		t.bt.AscendLessThan(item{key: end}, collect)
	case end == nil:
		t.bt.AscendGreaterOrEqual(item{key: start}, collect)
	default:
		t.bt.AscendRange(item{key: start}, item{key: end}, collect)
	}
	return res
}
