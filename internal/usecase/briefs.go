package usecase

import (
	"fmt"
	"path"
	"strings"

	"proposal_builder/internal/domain/entities"
)

// allowedBriefExtensions lists accepted uploads. Only the text formats
// contribute prompt text; binary formats are archived as-is.
var allowedBriefExtensions = map[string]bool{
	".pdf":  false,
	".doc":  false,
	".docx": false,
	".txt":  true,
	".md":   true,
	".csv":  true,
}

func briefExtension(name string) string {
	return strings.ToLower(path.Ext(strings.TrimSpace(name)))
}

// validateBriefFiles rejects uploads with an extension outside the allow list.
func validateBriefFiles(files []entities.BriefFile) error {
	for _, f := range files {
		if _, ok := allowedBriefExtensions[briefExtension(f.Name)]; !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.Name)
		}
	}
	return nil
}

// extractDocuments frames the text of each readable file as
// "--- <name> ---\n<text>\n". Files with no text are skipped.
func extractDocuments(files []entities.BriefFile) []string {
	docs := make([]string, 0, len(files))
	for _, f := range files {
		if !allowedBriefExtensions[briefExtension(f.Name)] {
			continue
		}
		text := strings.ToValidUTF8(string(f.Data), "")
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, fmt.Sprintf("--- %s ---\n%s\n", f.Name, text))
	}
	return docs
}

// briefObjectKey places an archived upload under its proposal.
func briefObjectKey(ownerID, fileName string) string {
	return "briefs/" + ownerID + "/" + path.Base(strings.ReplaceAll(fileName, "\\", "/"))
}
