package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/pool/errors"
)

// collectRange returns all btree items with a key in [start, end) in
// ascending order. Nil start or end leave that side open.
func collectRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	insert := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return items
}

// mergeIterator joins cached items with the results of the parent
// iterator. A cached item shadows the parent entry with the same key and a
// deleted item hides it.
type mergeIterator struct {
	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool

	items     []btree.Item
	idx       int
	ascending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(parent Iterator, items []btree.Item, ascending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		parent:    parent,
		items:     items,
		ascending: ascending,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (it *mergeIterator) advanceParent() error {
	key, value, err := it.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		it.parentDone = true
		it.parentKey, it.parentVal = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	it.parentKey, it.parentVal = key, value
	return nil
}

// Next returns the next visible entry, or ErrIteratorDone.
func (it *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if it.idx >= len(it.items) {
			if it.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			return it.takeParent()
		}

		item := it.items[it.idx]
		if !it.parentDone {
			cmp := bytes.Compare(it.parentKey, item.(keyer).Key())
			if !it.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				return it.takeParent()
			}
			if cmp == 0 {
				if err := it.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		it.idx++
		switch t := item.(type) {
		case setItem:
			return t.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
		}
	}
}

func (it *mergeIterator) takeParent() ([]byte, []byte, error) {
	key, value := it.parentKey, it.parentVal
	if err := it.advanceParent(); err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// Release frees the parent iterator.
func (it *mergeIterator) Release() {
	it.parent.Release()
	it.items = nil
}
