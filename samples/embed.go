package samples

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.svg
var sampleFS embed.FS

// Load 返回内置示例 SVG 的字节数据，name 可写为 "embed:spiral.svg" 或直接 "spiral.svg"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	data, err := sampleFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("读取内置示例 %s 失败: %w", name, err)
	}
	return data, nil
}

// WriteTemp 将内置示例写入 dir 并返回文件路径，供需要真实文件路径的调用方使用。
func WriteTemp(dir, name string) (string, error) {
	data, err := Load(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, strings.TrimPrefix(name, "embed:"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入示例文件 %s 失败: %w", path, err)
	}
	return path, nil
}
