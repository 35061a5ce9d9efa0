package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// videoExts are the container extensions picked up by directory scans and
// the watcher. Anything else is left alone.
var videoExts = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".flv":  {},
	".wmv":  {},
	".mpeg": {},
	".mpg":  {},
	".ogg":  {},
	".webm": {},
}

// IsVideoPath reports whether the path has a recognized video extension.
func IsVideoPath(path string) bool {
	_, ok := videoExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// CollectVideos walks root recursively and returns every video file,
// sorted for deterministic processing order.
func CollectVideos(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsVideoPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps an input file to its destination under outDir, keeping
// the path relative to inDir so batch runs mirror the source tree. When
// the input does not live under inDir only the basename is kept.
func OutputPath(inDir, outDir, input string) string {
	rel, err := filepath.Rel(inDir, input)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(input)
	}
	return filepath.Join(outDir, rel)
}

// TranscriptPath is the transcript export location for an output video:
// same directory, "<base>_transcript.txt".
func TranscriptPath(outputVideo string) string {
	ext := filepath.Ext(outputVideo)
	return strings.TrimSuffix(outputVideo, ext) + "_transcript.txt"
}
