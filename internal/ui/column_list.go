package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/jma-terminal/internal/navigation"
)

// optionItem wraps a navigation option for use in a list
type optionItem struct {
	option navigation.Option
}

// FilterValue implements list.Item
func (o optionItem) FilterValue() string {
	return o.option.Label
}

// Title implements list.DefaultItem
func (o optionItem) Title() string {
	return o.option.Label
}

// Description implements list.DefaultItem
func (o optionItem) Description() string {
	return ""
}

// createColumnList creates a list.Model for one hierarchy level
func createColumnList(title string, width, height int) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)

	return l
}

// setOptions replaces the items of l
func setOptions(l *list.Model, opts []navigation.Option) {
	items := make([]list.Item, len(opts))
	for i, opt := range opts {
		items[i] = optionItem{option: opt}
	}
	l.SetItems(items)
	l.ResetSelected()
}

// selectedOption returns the highlighted option of l
func selectedOption(l list.Model) (navigation.Option, bool) {
	item, ok := l.SelectedItem().(optionItem)
	if !ok {
		return navigation.Option{}, false
	}
	return item.option, true
}
