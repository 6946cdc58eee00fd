// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/icza/mjpeg"
	_ "golang.org/x/image/tiff" // frame decoder
)

// Animate assembles the frames 0 through count-1 in dir into an MJPEG
// AVI video at dst, played at fps frames per second. Every frame must
// have the size of the first one.
func Animate(dir string, count int, format, dst string, fps int) error {
	if count <= 0 {
		return fmt.Errorf("hexframes: no frames to animate")
	}
	if fps <= 0 {
		return fmt.Errorf("hexframes: invalid frame rate %d", fps)
	}
	first, err := readFrame(FramePath(dir, 0, format))
	if err != nil {
		return err
	}
	size := first.Bounds().Size()
	aw, err := mjpeg.New(dst, int32(size.X), int32(size.Y), int32(fps))
	if err != nil {
		return fmt.Errorf("hexframes: creating %s: %w", dst, err)
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: 90}
	for i := 0; i < count; i++ {
		img := first
		if i > 0 {
			path := FramePath(dir, i, format)
			if img, err = readFrame(path); err != nil {
				aw.Close()
				return err
			}
			if img.Bounds().Size() != size {
				aw.Close()
				return fmt.Errorf("hexframes: frame %s is %v, want %v", path, img.Bounds().Size(), size)
			}
		}
		buf.Reset()
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			aw.Close()
			return err
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return fmt.Errorf("hexframes: adding frame %d: %w", i, err)
		}
	}
	return aw.Close()
}

func readFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("hexframes: decoding %s: %w", path, err)
	}
	return img, nil
}
