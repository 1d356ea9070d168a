package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	// đ/Đ không tách được bằng NFD nên map tay
	strokeLetters = strings.NewReplacer("đ", "d", "Đ", "D")
)

// RemoveDiacritics bỏ dấu: "Nguyễn Ánh" → "Nguyen Anh"
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strokeLetters.Replace(input))
	if err != nil {
		return input
	}
	return out
}

// SecureFilename trả về tên file an toàn để lưu trên disk/object storage:
// chỉ giữ ASCII chữ, số, "_", ".", "-"; không còn path separator.
// Kết quả có thể rỗng, caller phải kiểm tra.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	name = RemoveDiacritics(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name == "." || name == ".." {
		return ""
	}
	return name
}

// TimestampedFilename thêm prefix YYYYMMDD_HHMMSS_ để tránh trùng tên
func TimestampedFilename(now time.Time, name string) string {
	return now.Format("20060102_150405") + "_" + name
}

// Extension trả về phần mở rộng lowercase, không có dấu chấm
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// WithExtension thay phần mở rộng của name bằng ext (không có dấu chấm)
func WithExtension(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + ext
}
