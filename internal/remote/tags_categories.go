package remote

import "sitestats/internal/models"

type StatsTagAndCategoryKind string

const (
	TagAndCategoryCategory StatsTagAndCategoryKind = "category"
	TagAndCategoryTag      StatsTagAndCategoryKind = "tag"
	TagAndCategoryFolder   StatsTagAndCategoryKind = "folder"
)

// unknownTagsCategoriesType is stored for kinds the store does not know, so
// that insertion fails validation instead of silently coercing.
const unknownTagsCategoriesType models.TagsCategoriesType = -1

func (k StatsTagAndCategoryKind) storedType() models.TagsCategoriesType {
	switch k {
	case TagAndCategoryCategory:
		return models.TagsCategoriesCategory
	case TagAndCategoryTag:
		return models.TagsCategoriesTag
	case TagAndCategoryFolder:
		return models.TagsCategoriesFolder
	}
	return unknownTagsCategoriesType
}

func tagKindOf(t models.TagsCategoriesType) StatsTagAndCategoryKind {
	switch t {
	case models.TagsCategoriesTag:
		return TagAndCategoryTag
	case models.TagsCategoriesFolder:
		return TagAndCategoryFolder
	}
	return TagAndCategoryCategory
}

type StatsTagAndCategory struct {
	Name       string                  `json:"name"`
	Kind       StatsTagAndCategoryKind `json:"kind"`
	URL        string                  `json:"url,omitempty"`
	ViewsCount int64                   `json:"viewsCount"`
	Children   []StatsTagAndCategory   `json:"children,omitempty"`
}

type StatsTagsAndCategoriesInsight struct {
	TopTagsAndCategories []StatsTagAndCategory `json:"topTagsAndCategories"`
}

func (i StatsTagsAndCategoriesInsight) RecordType() models.StatsRecordType {
	return models.TagsAndCategories
}

func (i StatsTagsAndCategoriesInsight) StatsRecordValues() []models.StatsRecordValue {
	var t models.ValueTable
	for _, tc := range i.TopTagsAndCategories {
		addTagAndCategory(&t, -1, tc)
	}
	return t.Values()
}

func addTagAndCategory(t *models.ValueTable, parent int, tc StatsTagAndCategory) {
	idx := t.AddChild(parent, &models.TagsCategoriesStatsRecordValue{
		Name:       tc.Name,
		LinkURL:    tc.URL,
		ViewsCount: tc.ViewsCount,
		Type:       tc.Kind.storedType(),
	})
	for _, child := range tc.Children {
		addTagAndCategory(t, idx, child)
	}
}

func NewStatsTagsAndCategoriesInsight(values []models.StatsRecordValue) (*StatsTagsAndCategoriesInsight, bool) {
	p := models.PartitionValues(values)
	if p.Record == nil {
		return nil, false
	}
	insight := &StatsTagsAndCategoriesInsight{TopTagsAndCategories: []StatsTagAndCategory{}}
	for _, v := range p.TagsCategories {
		if v.ParentIndex() >= 0 {
			continue
		}
		insight.TopTagsAndCategories = append(insight.TopTagsAndCategories, tagAndCategoryFrom(p.Record, v))
	}
	return insight, true
}

func tagAndCategoryFrom(r *models.StatsRecord, v *models.TagsCategoriesStatsRecordValue) StatsTagAndCategory {
	tc := StatsTagAndCategory{
		Name:       v.Name,
		Kind:       tagKindOf(v.Type),
		URL:        v.LinkURL,
		ViewsCount: v.ViewsCount,
	}
	for _, child := range r.Children(v) {
		if cv, ok := child.(*models.TagsCategoriesStatsRecordValue); ok {
			tc.Children = append(tc.Children, tagAndCategoryFrom(r, cv))
		}
	}
	return tc
}
