package memengine

import (
	"sync"

	"github.com/RoaringBitmap/roaring/roaring64"
)

type (
	// PostingList document id set backing one indexed token or one
	// intermediate evaluation result
	PostingList struct {
		*roaring64.Bitmap
	}
)

var bitmapPool = sync.Pool{
	New: func() interface{} {
		return roaring64.NewBitmap()
	},
}

func NewPostingList() PostingList {
	return PostingList{
		Bitmap: bitmapPool.Get().(*roaring64.Bitmap),
	}
}

func ReleasePostingList(list PostingList) {
	if list.Bitmap == nil {
		return
	}
	if !list.IsEmpty() {
		list.Clear()
	}
	bitmapPool.Put(list.Bitmap)
}
