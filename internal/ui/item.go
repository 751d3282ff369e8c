package ui

import (
	"fmt"

	"github.com/nissyi-gh/actionlist/internal/model"
)

// ActionItem wraps model.Item to satisfy the list.DefaultItem interface.
type ActionItem struct {
	Item  model.Item
	Today string
}

func (i ActionItem) Title() string {
	check := "[ ]"
	if i.Item.IsCompleted {
		check = "[x]"
	}
	mark := ""
	switch {
	case i.Item.IsOverdue(i.Today):
		mark = "! "
	case !i.Item.IsCompleted && i.Item.IsScheduledToday(i.Today):
		mark = "* "
	}
	return fmt.Sprintf("%s %s%s %s", check, mark, i.Item.Text, projectStyle.Render("["+i.Item.Project+"]"))
}

func (i ActionItem) Description() string {
	return i.Item.Project
}

func (i ActionItem) FilterValue() string {
	return i.Item.Text
}
