package rewrite

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/uuid-redirector/pkg/entityid"
	"github.com/hashicorp-forge/uuid-redirector/pkg/nbt"
	"github.com/hashicorp-forge/uuid-redirector/pkg/region"
)

type recorder struct {
	events []string
}

func (r *recorder) sink() Sink {
	return Sink{
		OnScan:   func(p string) { r.events = append(r.events, "scan "+p) },
		OnModify: func(p string) { r.events = append(r.events, "modify "+p) },
		OnRename: func(o, n string) { r.events = append(r.events, "rename "+o+" -> "+n) },
	}
}

func writeDoc(t *testing.T, fsys afero.Fs, path string, doc *nbt.Document) []byte {
	t.Helper()
	data, err := doc.Encode()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, path, data, 0o644))
	return data
}

func readDoc(t *testing.T, fsys afero.Fs, path string) *nbt.Document {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	doc, err := nbt.Decode(data)
	require.NoError(t, err)
	return doc
}

func TestFileRewriter_RewriteName(t *testing.T) {
	job := testJob(t)

	t.Run("renames matching name", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/w/"+srcCanonical+".json", []byte("{}"), 0o644))
		rec := &recorder{}

		got, err := NewFileRewriter(fsys, job, rec.sink(), nil).RewriteName("/w/" + srcCanonical + ".json")
		require.NoError(t, err)
		assert.Equal(t, "/w/"+dstCanonical+".json", got)

		exists, _ := afero.Exists(fsys, "/w/"+dstCanonical+".json")
		assert.True(t, exists)
		exists, _ = afero.Exists(fsys, "/w/"+srcCanonical+".json")
		assert.False(t, exists)
		assert.Equal(t, []string{"rename /w/" + srcCanonical + ".json -> /w/" + dstCanonical + ".json"}, rec.events)
	})

	t.Run("leaves other names alone", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/w/"+otherID+".json", []byte("{}"), 0o644))
		rec := &recorder{}

		got, err := NewFileRewriter(fsys, job, rec.sink(), nil).RewriteName("/w/" + otherID + ".json")
		require.NoError(t, err)
		assert.Equal(t, "/w/"+otherID+".json", got)
		assert.Empty(t, rec.events)
	})

	t.Run("only the last component is rewritten", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		dir := "/" + srcCanonical
		require.NoError(t, afero.WriteFile(fsys, dir+"/level.dat", []byte{}, 0o644))

		got, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteName(dir + "/level.dat")
		require.NoError(t, err)
		assert.Equal(t, dir+"/level.dat", got)
	})

	t.Run("conflict leaves original", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/w/"+srcCanonical+".txt", []byte("old"), 0o644))
		require.NoError(t, afero.WriteFile(fsys, "/w/"+dstCanonical+".txt", []byte("new"), 0o644))

		got, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteName("/w/" + srcCanonical + ".txt")
		require.ErrorIs(t, err, ErrRenameConflict)
		assert.Equal(t, "/w/"+srcCanonical+".txt", got)

		data, _ := afero.ReadFile(fsys, "/w/"+srcCanonical+".txt")
		assert.Equal(t, "old", string(data))
		data, _ = afero.ReadFile(fsys, "/w/"+dstCanonical+".txt")
		assert.Equal(t, "new", string(data))
	})
}

func TestFileRewriter_CaseOnlyRename(t *testing.T) {
	job, err := NewJob(srcCanonical, srcCanonical)
	require.NoError(t, err)
	upper := "/w/C4B1B0B0-1234-5678-9ABC-DEF012345678.txt"
	lower := "/w/" + srcCanonical + ".txt"

	t.Run("renames when target is free", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, upper, []byte("a"), 0o644))

		got, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteName(upper)
		require.NoError(t, err)
		assert.Equal(t, lower, got)
	})

	t.Run("distinct existing entry is a conflict", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, upper, []byte("a"), 0o644))
		require.NoError(t, afero.WriteFile(fsys, lower, []byte("b"), 0o644))

		got, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteName(upper)
		require.ErrorIs(t, err, ErrRenameConflict)
		assert.Equal(t, upper, got)

		data, _ := afero.ReadFile(fsys, lower)
		assert.Equal(t, "b", string(data))
		data, _ = afero.ReadFile(fsys, upper)
		assert.Equal(t, "a", string(data))
	})
}

func TestFileRewriter_PlanName(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/w/"+srcCanonical+".json", []byte("{}"), 0o644))
	files := NewFileRewriter(fsys, testJob(t), Sink{}, nil)

	got, err := files.PlanName("/w/" + srcCanonical + ".json")
	require.NoError(t, err)
	assert.Equal(t, "/w/"+dstCanonical+".json", got)

	exists, _ := afero.Exists(fsys, "/w/"+srcCanonical+".json")
	assert.True(t, exists, "planning must not rename")

	require.NoError(t, afero.WriteFile(fsys, "/w/"+dstCanonical+".json", []byte("{}"), 0o644))
	_, err = files.PlanName("/w/" + srcCanonical + ".json")
	assert.ErrorIs(t, err, ErrRenameConflict)
}

func TestFileRewriter_RewriteContent(t *testing.T) {
	job := testJob(t)

	t.Run("rewrites and truncates", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		body := `{"owner":"c4b1b0b0123456789abcdef012345678"}`
		require.NoError(t, afero.WriteFile(fsys, "/a.json", []byte(body), 0o600))

		changed, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteContent("/a.json")
		require.NoError(t, err)
		assert.True(t, changed)

		data, _ := afero.ReadFile(fsys, "/a.json")
		assert.Equal(t, `{"owner":"11111111-2222-3333-4444-555555555555"}`, string(data))
		info, _ := fsys.Stat("/a.json")
		assert.Equal(t, "-rw-------", info.Mode().Perm().String())
	})

	t.Run("unchanged file is not written", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(mem, "/a.txt", []byte(otherID), 0o644))

		changed, err := NewFileRewriter(afero.NewReadOnlyFs(mem), job, Sink{}, nil).RewriteContent("/a.txt")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		body := append([]byte(srcCanonical), 0xff, 0xfe)
		require.NoError(t, afero.WriteFile(fsys, "/bad.txt", body, 0o644))

		_, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteContent("/bad.txt")
		require.ErrorIs(t, err, ErrDecode)

		data, _ := afero.ReadFile(fsys, "/bad.txt")
		assert.Equal(t, body, data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileRewriter(afero.NewMemMapFs(), job, Sink{}, nil).RewriteContent("/nope.txt")
		assert.ErrorIs(t, err, ErrFileAccess)
	})
}

func TestFileRewriter_RewriteTagFile(t *testing.T) {
	job := testJob(t)

	t.Run("gzip document", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		root := nbt.NewCompound()
		longPair(root, "Owner", job.Source)
		writeDoc(t, fsys, "/p.dat", &nbt.Document{Root: root, Compression: nbt.CompressionGzip})

		changed, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteTagFile("/p.dat")
		require.NoError(t, err)
		assert.True(t, changed)

		doc := readDoc(t, fsys, "/p.dat")
		assert.Equal(t, nbt.CompressionGzip, doc.Compression)
		assert.True(t, pairOf(t, doc.Root.(*nbt.Compound), "Owner").Equal(job.Target))
	})

	t.Run("no match is not written", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		root := nbt.NewCompound()
		longPair(root, "Owner", entityid.MustParse(otherID))
		before := writeDoc(t, mem, "/p.dat", &nbt.Document{Root: root, Compression: nbt.CompressionGzip})

		changed, err := NewFileRewriter(afero.NewReadOnlyFs(mem), job, Sink{}, nil).RewriteTagFile("/p.dat")
		require.NoError(t, err)
		assert.False(t, changed)

		after, _ := afero.ReadFile(mem, "/p.dat")
		assert.Equal(t, before, after)
	})

	t.Run("corrupt document", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "/p.dat", []byte{0x0a, 0x00}, 0o644))

		_, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteTagFile("/p.dat")
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestFileRewriter_RewriteRegionFile(t *testing.T) {
	job := testJob(t)
	src := job.Source.Words()

	fsys := afero.NewMemMapFs()
	file := &region.File{}

	owned := nbt.NewCompound()
	owned.Set("Owner", nbt.IntArray{src[0], src[1], src[2], src[3]})
	c0 := &region.Chunk{Index: 0, Timestamp: 1, Compression: byte(nbt.CompressionZlib)}
	require.NoError(t, c0.SetDocument(&nbt.Document{Root: owned}))
	file.Chunks[0] = c0

	plain := nbt.NewCompound()
	plain.Set("xPos", nbt.Int(3))
	c3 := &region.Chunk{Index: 3, Timestamp: 2, Compression: byte(nbt.CompressionZlib)}
	require.NoError(t, c3.SetDocument(&nbt.Document{Root: plain}))
	file.Chunks[3] = c3

	file.Chunks[9] = &region.Chunk{Index: 9, Compression: byte(nbt.CompressionZlib), External: true}

	data, err := file.Bytes()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, "/r.0.0.mca", data, 0o644))

	changed, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteRegionFile(context.Background(), "/r.0.0.mca")
	require.NoError(t, err)
	assert.True(t, changed)

	out, _ := afero.ReadFile(fsys, "/r.0.0.mca")
	parsed, err := region.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.Len())

	doc, err := parsed.Chunks[0].Document()
	require.NoError(t, err)
	owner, _ := doc.Root.(*nbt.Compound).Get("Owner")
	assert.Equal(t, job.Target.Raw(), entityid.FromWords([4]int32(owner.(nbt.IntArray))).Raw())

	doc, err = parsed.Chunks[3].Document()
	require.NoError(t, err)
	x, _ := doc.Root.(*nbt.Compound).Get("xPos")
	assert.Equal(t, nbt.Int(3), x)
	assert.True(t, parsed.Chunks[9].External)

	t.Run("cancelled between chunks", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteRegionFile(ctx, "/r.0.0.mca")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("corrupt region", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fsys, "/bad.mca", []byte("short"), 0o644))
		_, err := NewFileRewriter(fsys, job, Sink{}, nil).RewriteRegionFile(context.Background(), "/bad.mca")
		assert.ErrorIs(t, err, ErrDecode)
	})
}
