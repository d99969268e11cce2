package newznab

import "strings"

const categorySeparator = " > "

// flattenCategories turns the category -> subcat tree into one list, naming
// each entry "<parent> > <child>". Parents without subcategories are not
// selectable and are skipped.
func flattenCategories(caps capsResponse) []Category {
	var out []Category
	for _, parent := range caps.Caps.Categories.Category {
		_, parentName := parent.ident()
		for _, sub := range parent.Subcat {
			id, name := sub.ident()
			out = append(out, Category{
				ID:         id,
				Name:       parentName + categorySeparator + name,
				ParentName: parentName,
			})
		}
	}
	return out
}

// CategoryIDs returns the ids of cats in order.
func CategoryIDs(cats []Category) []string {
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}

// JoinIDs renders ids as the comma separated "cat" parameter, dropping blanks.
func JoinIDs(ids []string) string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			kept = append(kept, id)
		}
	}
	return strings.Join(kept, ",")
}

// SplitIDs parses a comma separated id list, as accepted on the command line.
func SplitIDs(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
