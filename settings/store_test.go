package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	store := NewFileStore(path)

	s, err := store.Load(ctx)
	if err != nil || !s.IsZero() {
		t.Fatalf("不存在的文件应得到空设置: %+v %v", s, err)
	}

	want := Settings{
		Title:              "工程",
		RectWidth:          ptr(72.5),
		GapWidth:           ptr(0.0),
		ArrowChar:          ptr("⇒"),
		FontSizeLimitCount: ptr(4),
		Labels:             []LabelSetting{{Text: "あ"}, {Text: "い", FontSize: ptr(6.0)}},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if got.Title != "工程" || *got.RectWidth != 72.5 || *got.GapWidth != 0 || *got.ArrowChar != "⇒" {
		t.Fatalf("往返不一致: %+v", got)
	}
	if got.FontSizeLimitCount == nil || *got.FontSizeLimitCount != 4 {
		t.Fatalf("整数字段往返不一致: %v", got.FontSizeLimitCount)
	}
	if got.RectHeight != nil {
		t.Fatalf("未设置的字段不应写入")
	}
	if len(got.Labels) != 2 || got.Labels[1].FontSize == nil || *got.Labels[1].FontSize != 6 {
		t.Fatalf("标签往返不一致: %+v", got.Labels)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("rectWidth = [[[\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFileStore(path).Load(context.Background())
	if err != nil || !s.IsZero() {
		t.Fatalf("损坏的文件应得到空设置: %+v %v", s, err)
	}

	if err := os.WriteFile(path, []byte("rectWidth = \"wide\"\ngapWidth = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s, _ = NewFileStore(path).Load(context.Background())
	if s.RectWidth != nil || s.GapWidth == nil || *s.GapWidth != 3 {
		t.Fatalf("类型错误的字段应单独丢弃: %+v", s)
	}
}

func TestFileStoreUnreadablePath(t *testing.T) {
	// 路径指向目录，读取失败。
	s, err := NewFileStore(t.TempDir()).Load(context.Background())
	if err != nil || !s.IsZero() {
		t.Fatalf("无法读取的文件应得到空设置: %+v %v", s, err)
	}
}

type fakeRedis struct {
	data   map[string]string
	getErr error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRedis{data: map[string]string{}}
	store := &RedisStore{client: fake, key: DefaultRedisKey}

	s, err := store.Load(ctx)
	if err != nil || !s.IsZero() {
		t.Fatalf("缺少键时应得到空设置: %+v %v", s, err)
	}
	if err := store.Save(ctx, Settings{RectWidth: ptr(30.0), Labels: []LabelSetting{{Text: "あ"}}}); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	if _, ok := fake.data[DefaultRedisKey]; !ok {
		t.Fatalf("应写入键 %s", DefaultRedisKey)
	}
	s, err = store.Load(ctx)
	if err != nil || s.RectWidth == nil || *s.RectWidth != 30 || len(s.Labels) != 1 {
		t.Fatalf("往返不一致: %+v %v", s, err)
	}

	fake.data[DefaultRedisKey] = "{not json"
	if s, err := store.Load(ctx); err != nil || !s.IsZero() {
		t.Fatalf("损坏的记录应得到空设置: %+v %v", s, err)
	}

	fake.getErr = errors.New("connection refused")
	if _, err := store.Load(ctx); err == nil {
		t.Fatalf("连接错误应返回")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		uri  string
		want string
	}{
		{"", "*settings.MemoryStore"},
		{"memory:", "*settings.MemoryStore"},
		{"file://" + filepath.Join(dir, "a.toml"), "*settings.FileStore"},
		{filepath.Join(dir, "b.toml"), "*settings.FileStore"},
		{"redis://localhost:6379/0?key=x", "*settings.RedisStore"},
	}
	for _, tt := range tests {
		repo, err := Open(tt.uri)
		if err != nil {
			t.Fatalf("%q: %v", tt.uri, err)
		}
		if got := typeName(repo); got != tt.want {
			t.Fatalf("%q: 期望 %s，实际 %s", tt.uri, tt.want, got)
		}
	}
	if fs, _ := Open("file://" + filepath.Join(dir, "a.toml")); fs.(*FileStore).Path() != filepath.Join(dir, "a.toml") {
		t.Fatalf("file:// 路径解析错误: %s", fs.(*FileStore).Path())
	}
	if rs, _ := Open("redis://localhost:6379/0?key=x"); rs.(*RedisStore).key != "x" {
		t.Fatalf("redis key 参数未生效")
	}
	if _, err := Open("mongodb://localhost"); !errors.Is(err, ErrUnknownStore) {
		t.Fatalf("未知的存储应返回 ErrUnknownStore，实际 %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(Settings{Title: "a"})
	if s, _ := m.Load(ctx); s.Title != "a" {
		t.Fatalf("初始值错误")
	}
	_ = m.Save(ctx, Settings{Title: "b"})
	if s, _ := m.Load(ctx); s.Title != "b" {
		t.Fatalf("保存后应读到新值")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *MemoryStore:
		return "*settings.MemoryStore"
	case *FileStore:
		return "*settings.FileStore"
	case *RedisStore:
		return "*settings.RedisStore"
	}
	return "?"
}
