package genes

import (
	"path/filepath"
	"regexp"
	"strings"
)

var tsExtension = regexp.MustCompile(`^(.*)(\.ts)$`)

/*
provide the module specifier of an import between two generated files

import type {Book} from "../library/v1/library_pb.js"
                        ^^^^^^^^^^^^^^^^^^^^^^^^^^^^
*/
func importPath(currentFile, targetFile string) string {
	var (
		baseDirPath, _    = filepath.Split(filepath.FromSlash(currentFile)) // "example/shelf/v1/"
		relativePath, err = filepath.Rel(baseDirPath+".", filepath.FromSlash(targetFile))
	)
	if err != nil {
		// both paths are relative to the output root, Rel cannot fail
		panic(err)
	}
	s := filepath.ToSlash(relativePath)
	s = tsExtension.ReplaceAllString(s, `$1.js`)
	if !strings.HasPrefix(s, "../") {
		s = "./" + s
	}
	return s
}
