package glyph

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// 该文件定义竖排字符的分类表：小字、旋转、翻转以及各方向的对齐。

// Tag 是字符排版标签的位集合，一个字符可以同时带有多个标签。
type Tag uint8

const (
	SmallChar       Tag = 1 << iota // 小书假名与句读点，靠右放置
	Rotate                          // 竖排时顺时针旋转 90°
	Reverse                         // 旋转后再沿竖轴翻转
	CenterJustified                 // 括号类居中，抑制 SmallChar 的偏移
	LeftJustified                   // 闭括号靠左
	TopJustified                    // 句读点与闭括号上移
	BottomJustified                 // 开括号下移
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{SmallChar, "smallChar"},
	{Rotate, "rotate"},
	{Reverse, "reverse"},
	{CenterJustified, "centerJustified"},
	{LeftJustified, "leftJustified"},
	{TopJustified, "topJustified"},
	{BottomJustified, "bottomJustified"},
}

// Has 判断是否包含 flag 中的全部标签。
func (t Tag) Has(flag Tag) bool { return t&flag == flag }

// String 以 | 连接标签名，未分类的字符返回 "none"。
func (t Tag) String() string {
	if t == 0 {
		return "none"
	}
	var names []string
	for _, tn := range tagNames {
		if t.Has(tn.tag) {
			names = append(names, tn.name)
		}
	}
	return strings.Join(names, "|")
}

// MarshalText 让调试 JSON 输出可读的标签名。
func (t Tag) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// 分类表。〜(U+301C) 与 ―(U+2015) 在常见输入法中与 ～、ー 混用，按同样方式旋转。
var tables = []struct {
	tag   Tag
	chars string
}{
	{SmallChar, "、。.,っゃゅょぁぃぅぇぉッャュョァィゥェォ"},
	{Rotate, "「」『』()（）【】ー～〜…-―"},
	{Reverse, "ー～〜"},
	{CenterJustified, "()（）【】…"},
	{LeftJustified, "」』"},
	{TopJustified, "、。」』"},
	{BottomJustified, "「『"},
}

var lookup = buildLookup()

func buildLookup() map[rune]Tag {
	m := make(map[rune]Tag)
	for _, tbl := range tables {
		for _, r := range tbl.chars {
			m[r] |= tbl.tag
		}
	}
	return m
}

// Classify 返回字符 r 的全部标签，不在任何表中的字符返回 0。
func Classify(r rune) Tag {
	return lookup[r]
}

// ClassifyGlyph 对一个字素簇分类。只有单个码点的簇才会命中分类表，
// 带组合符号的簇按普通字符处理。
func ClassifyGlyph(g string) Tag {
	r, size := utf8.DecodeRuneInString(g)
	if size == 0 || size != len(g) {
		return 0
	}
	return Classify(r)
}

// Members 返回所有出现在分类表中的字符（按码点排序）。
func Members() []rune {
	out := make([]rune, 0, len(lookup))
	for r := range lookup {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
