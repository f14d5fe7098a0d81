package attachmentlogs

import (
	"path/filepath"
	"strings"
)

// FileCategory is a coarse classification of an uploaded file
type FileCategory string

const (
	CategoryImage    FileCategory = "image"
	CategoryVideo    FileCategory = "video"
	CategoryAudio    FileCategory = "audio"
	CategoryDocument FileCategory = "document"
	CategoryArchive  FileCategory = "archive"
	CategoryCode     FileCategory = "code"
	CategoryOther    FileCategory = "other"
)

var categoryByExtension = map[string]FileCategory{
	".png": CategoryImage, ".jpg": CategoryImage, ".jpeg": CategoryImage,
	".gif": CategoryImage, ".webp": CategoryImage, ".bmp": CategoryImage,
	".svg": CategoryImage,

	".mp4": CategoryVideo, ".webm": CategoryVideo, ".mov": CategoryVideo,
	".avi": CategoryVideo, ".mkv": CategoryVideo,

	".mp3": CategoryAudio, ".wav": CategoryAudio, ".ogg": CategoryAudio,
	".flac": CategoryAudio, ".m4a": CategoryAudio,

	".pdf": CategoryDocument, ".doc": CategoryDocument, ".docx": CategoryDocument,
	".xls": CategoryDocument, ".xlsx": CategoryDocument, ".ppt": CategoryDocument,
	".pptx": CategoryDocument, ".txt": CategoryDocument, ".md": CategoryDocument,

	".zip": CategoryArchive, ".rar": CategoryArchive, ".7z": CategoryArchive,
	".tar": CategoryArchive, ".gz": CategoryArchive,

	".go": CategoryCode, ".py": CategoryCode, ".js": CategoryCode,
	".ts": CategoryCode, ".java": CategoryCode, ".c": CategoryCode,
	".cpp": CategoryCode, ".rs": CategoryCode, ".sh": CategoryCode,
	".json": CategoryCode, ".yaml": CategoryCode, ".yml": CategoryCode,
	".sql": CategoryCode,
}

// CategorizeFile classifies a file by its extension
func CategorizeFile(filename string) FileCategory {
	ext := strings.ToLower(filepath.Ext(filename))
	if category, ok := categoryByExtension[ext]; ok {
		return category
	}
	return CategoryOther
}
