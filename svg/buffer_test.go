package svg

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeGeometry(t *testing.T) {
	cases := []struct {
		w, h, scale float32
		want        Geometry
	}{
		{256, 256, 1, Geometry{Width: 256, Height: 256, Stride: 1024, Capacity: 262144}},
		{256, 256, 2, Geometry{Width: 512, Height: 512, Stride: 2048, Capacity: 1048576}},
		{10.9, 3.1, 1, Geometry{Width: 10, Height: 3, Stride: 40, Capacity: 120}},
		{10, 10, 0, Geometry{}},
		{10, 10, -2, Geometry{}},
		{0, 10, 1, Geometry{Stride: 0, Height: 10}},
		{float32(math.NaN()), 4, 1, Geometry{Height: 4}},
	}
	for _, tc := range cases {
		got, err := computeGeometry(tc.w, tc.h, tc.scale, 0)
		if err != nil {
			t.Fatalf("computeGeometry(%g, %g, %g) error: %v", tc.w, tc.h, tc.scale, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("computeGeometry(%g, %g, %g) (-want +got):\n%s", tc.w, tc.h, tc.scale, diff)
		}
	}
}

func TestComputeGeometryLimits(t *testing.T) {
	if _, err := computeGeometry(1e12, 1, 1, 0); err == nil {
		t.Fatalf("oversized width accepted")
	}
	if _, err := computeGeometry(1, float32(math.Inf(1)), 1, 0); err == nil {
		t.Fatalf("infinite height accepted")
	}
	if _, err := computeGeometry(100, 100, 1, 9999); err == nil {
		t.Fatalf("MaxPixels not enforced")
	}
	if _, err := computeGeometry(100, 100, 1, 10000); err != nil {
		t.Fatalf("exact MaxPixels rejected: %v", err)
	}
}

func TestOutputBufferLifecycle(t *testing.T) {
	geo := Geometry{Width: 2, Height: 3, Stride: 8, Capacity: 24}
	buf := allocate(geo)
	if len(buf.mem) != 0 || cap(buf.mem) != 24 {
		t.Fatalf("fresh buffer len %d cap %d", len(buf.mem), cap(buf.mem))
	}
	if n := len(buf.region()); n != 24 {
		t.Fatalf("region length %d", n)
	}
	if _, err := buf.image(); !errors.Is(err, errUncommitted) {
		t.Fatalf("image before commit: %v", err)
	}

	buf.region()[23] = 0xFF
	buf.commit()
	img, err := buf.image()
	if err != nil {
		t.Fatalf("image after commit: %v", err)
	}
	if img.Width != 2 || img.Height != 3 || img.Stride != 8 || img.Len() != 24 || img.Pix[23] != 0xFF {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestOutputBufferMismatch(t *testing.T) {
	buf := allocate(Geometry{Width: 2, Height: 2, Stride: 8, Capacity: 12})
	buf.commit()
	if _, err := buf.image(); !errors.Is(err, errBufferSize) {
		t.Fatalf("expected size mismatch, got %v", err)
	}
}
