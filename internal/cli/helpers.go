package cli

import (
	"time"

	api "github.com/HizanLi/learn-textbook-with-ai/api/v1alpha1"
)

func forEachProject(v interface{}, fn func(id, name, status, uploaded string)) {
	emit := func(p api.Project) {
		fn(p.Id, p.OriginalName, string(p.Status), p.UploadedAt.Format(time.RFC3339))
	}
	switch t := v.(type) {
	case *api.Project:
		emit(*t)
	case api.ProjectList:
		for _, p := range t {
			emit(p)
		}
	}
}
