package codec

import (
	"bytes"
	"testing"

	"github.com/qtreeimg/qtc/internal/quadtree"
)

func buildTree(t *testing.T, pixels []byte, side int) *quadtree.Tree {
	t.Helper()
	tree, err := quadtree.Build(pixels, side, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func roundTrip(t *testing.T, pixels []byte, side int) *quadtree.Tree {
	t.Helper()
	tree := buildTree(t, pixels, side)

	res, err := Encode(tree, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(res.Body), tree.Levels, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func assertTreesEqual(t *testing.T, a, b *quadtree.Node) {
	t.Helper()
	if a == nil || b == nil {
		if a != b {
			t.Fatalf("nil mismatch: a=%v b=%v", a, b)
		}
		return
	}
	if a.M != b.M {
		t.Errorf("mean mismatch: %d != %d", a.M, b.M)
	}
	for _, q := range quadtree.Order {
		ac, bc := a.Children[q], b.Children[q]
		if (ac == nil) != (bc == nil) {
			t.Fatalf("child %v presence mismatch", q)
		}
		if ac != nil {
			assertTreesEqual(t, ac, bc)
		}
	}
}

func TestRoundTrip_Uniform2x2(t *testing.T) {
	tree := buildTree(t, []byte{7, 7, 7, 7}, 2)
	got := roundTrip(t, []byte{7, 7, 7, 7}, 2)
	assertTreesEqual(t, tree.Root, got.Root)
}

func TestRoundTrip_Residual2x2(t *testing.T) {
	tree := buildTree(t, []byte{1, 2, 3, 4}, 2)
	got := roundTrip(t, []byte{1, 2, 3, 4}, 2)
	assertTreesEqual(t, tree.Root, got.Root)
	if got.Root.Children[quadtree.BL].M != 3 {
		t.Fatalf("reconstructed BL mean = %d, want 3", got.Root.Children[quadtree.BL].M)
	}
}

func TestRoundTrip_MixedUniformity4x4(t *testing.T) {
	pixels := make([]byte, 16)
	fill := func(v byte, r0, c0 int) {
		for r := r0; r < r0+2; r++ {
			for c := c0; c < c0+2; c++ {
				pixels[r*4+c] = v
			}
		}
	}
	fill(10, 0, 0)
	fill(20, 0, 2)
	fill(30, 2, 2)
	fill(40, 2, 0)

	tree := buildTree(t, pixels, 4)
	got := roundTrip(t, pixels, 4)
	assertTreesEqual(t, tree.Root, got.Root)
}

func TestRoundTrip_S1SingleLeaf(t *testing.T) {
	tree := buildTree(t, []byte{42}, 1)
	got := roundTrip(t, []byte{42}, 1)
	assertTreesEqual(t, tree.Root, got.Root)
	if got.Root.M != 42 || !got.Root.U {
		t.Fatalf("root = %+v", got.Root)
	}
}

func TestRoundTrip_FullyHeterogeneous8x8(t *testing.T) {
	pixels := make([]byte, 64)
	for i := range pixels {
		pixels[i] = byte(i * 4)
	}
	tree := buildTree(t, pixels, 8)
	got := roundTrip(t, pixels, 8)
	assertTreesEqual(t, tree.Root, got.Root)
}

func TestDecode_TruncatedStream(t *testing.T) {
	tree := buildTree(t, []byte{1, 2, 3, 4}, 2)
	res, err := Encode(tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	truncated := res.Body[:len(res.Body)-1]
	if _, err := Decode(bytes.NewReader(truncated), tree.Levels, nil); err == nil {
		t.Fatal("expected error decoding truncated stream")
	}
}

func TestDecode_EmptyStream(t *testing.T) {
	if _, err := Decode(bytes.NewReader(nil), 2, nil); err == nil {
		t.Fatal("expected error decoding empty stream")
	}
}

func TestEncode_ProgressCoversAllPasses(t *testing.T) {
	tree := buildTree(t, make([]byte, 64*64), 64)
	var passes []int
	_, err := Encode(tree, func(pass, total int) {
		passes = append(passes, pass)
		if total != tree.Levels+1 {
			t.Errorf("total = %d, want %d", total, tree.Levels+1)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(passes) != tree.Levels+1 {
		t.Fatalf("got %d progress calls, want %d", len(passes), tree.Levels+1)
	}
}

func TestEncode_DeterministicOutput(t *testing.T) {
	pixels := []byte{1, 2, 3, 4}
	tree1 := buildTree(t, pixels, 2)
	tree2 := buildTree(t, pixels, 2)

	r1, err := Encode(tree1, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Encode(tree2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r1.Body, r2.Body) {
		t.Fatal("encoding the same tree twice produced different bodies")
	}
	if r1.TotalBits != r2.TotalBits {
		t.Fatal("encoding the same tree twice produced different bit counts")
	}
}

func TestEncode_UniformRootOmitsChildren(t *testing.T) {
	// A fully uniform image encodes only the root: its mean, a zero
	// residual and a set uniformity bit (11 bits, two bytes after
	// padding). Check that the body is far smaller than a raw 4x4 dump
	// would require.
	tree := buildTree(t, bytes.Repeat([]byte{9}, 16), 4)
	res, err := Encode(tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Body) >= 16 {
		t.Fatalf("uniform image body = %d bytes, want well under 16", len(res.Body))
	}
}
