package clipboard

import (
	"bytes"
	"fmt"
	"image/png"
	"sync"

	xclip "golang.design/x/clipboard"
)

// SystemSink writes images through golang.design/x/clipboard, which takes
// PNG-encoded data and converts it to the platform's native bitmap format.
type SystemSink struct {
	initOnce sync.Once
	initErr  error
}

// NewSystemSink returns a sink bound to the OS clipboard. The underlying
// library is initialised on first write.
func NewSystemSink() *SystemSink {
	return &SystemSink{}
}

func (s *SystemSink) Name() string { return "system" }

func (s *SystemSink) WriteImage(img *PixelImage) error {
	s.initOnce.Do(func() {
		s.initErr = xclip.Init()
	})
	if s.initErr != nil {
		return fmt.Errorf("%w: %v", ErrClipboardWrite, s.initErr)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.NRGBA()); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrClipboardWrite, err)
	}

	// Write reports failure with a nil channel.
	if changed := xclip.Write(xclip.FmtImage, buf.Bytes()); changed == nil {
		return fmt.Errorf("%w: rejected by the OS clipboard", ErrClipboardWrite)
	}
	return nil
}
