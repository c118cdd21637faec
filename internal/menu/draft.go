package menu

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/kiwari-pos/console/internal/imageenc"
)

var errNoEncoder = errors.New("image uploads are not configured")

// Draft is an in-progress, not-yet-committed item being created or edited.
// Every setter replaces exactly one field, so an image upload finishing in
// the background never clobbers text typed while it was being read.
type Draft struct {
	images *imageenc.Encoder

	mu     sync.Mutex
	fields Fields
}

func newDraft(f Fields, images *imageenc.Encoder) *Draft {
	return &Draft{fields: f, images: images}
}

// Fields returns a snapshot of the draft, ready for CreateItem or UpdateItem.
func (d *Draft) Fields() Fields {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields
}

// SetName sets the item name. Each setter replaces only its own field.
func (d *Draft) SetName(v string) { d.set(func(f *Fields) { f.Name = v }) }

// SetDescription sets the item description.
func (d *Draft) SetDescription(v string) { d.set(func(f *Fields) { f.Description = v }) }

// SetPrice sets the price text. It is validated when the draft is saved.
func (d *Draft) SetPrice(v string) { d.set(func(f *Fields) { f.Price = v }) }

// SetCategory sets the item category.
func (d *Draft) SetCategory(v string) { d.set(func(f *Fields) { f.Category = v }) }

// SetImage sets the image data URI directly, as when an edit keeps the old one.
func (d *Draft) SetImage(v string) { d.set(func(f *Fields) { f.Image = v }) }

func (d *Draft) set(fn func(*Fields)) {
	d.mu.Lock()
	fn(&d.fields)
	d.mu.Unlock()
}

// ImageTask is a running image attachment.
type ImageTask struct {
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

// Done is closed once the task has finished, merged or not.
func (t *ImageTask) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its outcome.
func (t *ImageTask) Wait() error {
	<-t.done
	return t.err
}

// Cancel discards the task's result if it has not been merged yet.
func (t *ImageTask) Cancel() { t.cancel() }

// AttachImage reads r in the background, encodes it as a data URI, and merges
// it into the draft's image field only. A nil r is a no-op that keeps the
// current image. When several uploads overlap, the last one to finish wins.
// Cancelling ctx or the task before it finishes discards the result.
func (d *Draft) AttachImage(ctx context.Context, r io.Reader) *ImageTask {
	ctx, cancel := context.WithCancel(ctx)
	t := &ImageTask{done: make(chan struct{}), cancel: cancel}

	if r == nil {
		cancel()
		close(t.done)
		return t
	}
	if d.images == nil {
		t.err = errNoEncoder
		cancel()
		close(t.done)
		return t
	}

	go func() {
		defer close(t.done)
		defer cancel()

		uri, err := d.images.Encode(r)
		if err != nil {
			t.err = err
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if err := ctx.Err(); err != nil {
			t.err = err
			return
		}
		d.fields.Image = uri
	}()
	return t
}
