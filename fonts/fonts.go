// Package fonts 负责定位与读取竖排所用的日文字体。
//
// 字体可以写成绝对/相对路径，也可以只写文件名（在系统字体目录中查找）；
// 留空时按 Candidates 的顺序查找常见的日文字体。
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
)

// Candidates 是未指定字体时依次尝试的文件名。
var Candidates = []string{
	"NotoSansJP-Regular.ttf",
	"NotoSansJP-Regular.otf",
	"NotoSansCJKjp-Regular.otf",
	"NotoSansCJK-Regular.ttc",
	"ipaexg.ttf",
	"ipag.ttf",
	"Hiragino Sans GB.ttc",
	"ヒラギノ角ゴシック W3.ttc",
	"YuGothR.ttc",
	"msgothic.ttc",
}

// ErrNotFound 表示没有找到可用的字体文件。
var ErrNotFound = errors.New("未找到可用的日文字体")

// finder 便于测试替换系统字体查找。
var finder = findfont.Find

// Locate 返回字体文件的路径。
func Locate(spec string) (string, error) {
	if spec == "" {
		for _, name := range Candidates {
			if path, err := finder(name); err == nil {
				return path, nil
			}
		}
		return "", ErrNotFound
	}
	if filepath.IsAbs(spec) || fileExists(spec) {
		if !fileExists(spec) {
			return "", fmt.Errorf("字体文件 %s 不存在: %w", spec, ErrNotFound)
		}
		return spec, nil
	}
	path, err := finder(spec)
	if err != nil {
		return "", fmt.Errorf("查找字体 %s 失败: %w", spec, errors.Join(ErrNotFound, err))
	}
	return path, nil
}

// Load 返回字体文件的字节数据与实际路径。
func Load(spec string) ([]byte, string, error) {
	path, err := Locate(spec)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
