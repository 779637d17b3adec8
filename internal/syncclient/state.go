package syncclient

import (
	"slices"

	"github.com/daybook/daybook/internal/models"
)

// Reorder moves the element at from to position to, shifting the rest.
// Out-of-range or equal indexes return list unchanged.
func Reorder[T any](list []T, from, to int) []T {
	if from == to || from < 0 || to < 0 || from >= len(list) || to >= len(list) {
		return list
	}
	moved := list[from]
	out := slices.Delete(slices.Clone(list), from, from+1)
	return slices.Insert(out, to, moved)
}

func todoIndex(list []models.TodoItem, id string) int {
	for i, item := range list {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func messageIndex(list []models.JournalMessage, id string) int {
	for i, msg := range list {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

// updateTodo applies fn to the todo with id on date, copying the list first.
func updateTodo(todos models.TodosByDate, date, id string, fn func(*models.TodoItem)) bool {
	list := todos[date]
	i := todoIndex(list, id)
	if i < 0 {
		return false
	}
	next := append([]models.TodoItem(nil), list...)
	fn(&next[i])
	todos[date] = next
	return true
}

// removeTodo drops the todo with id on date. A date left without todos is deleted.
func removeTodo(todos models.TodosByDate, date, id string) bool {
	list := todos[date]
	i := todoIndex(list, id)
	if i < 0 {
		return false
	}
	if len(list) == 1 {
		delete(todos, date)
		return true
	}
	next := make([]models.TodoItem, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)
	todos[date] = next
	return true
}

func updateMessage(messages models.MessagesByDate, date, id, text string) bool {
	list := messages[date]
	i := messageIndex(list, id)
	if i < 0 {
		return false
	}
	next := append([]models.JournalMessage(nil), list...)
	next[i].Text = text
	messages[date] = next
	return true
}

// removeMessage drops the message with id on date. When prune is false an
// emptied date stays as an empty list.
func removeMessage(messages models.MessagesByDate, date, id string, prune bool) bool {
	list := messages[date]
	i := messageIndex(list, id)
	if i < 0 {
		return false
	}
	next := make([]models.JournalMessage, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)
	if len(next) == 0 && prune {
		delete(messages, date)
		return true
	}
	messages[date] = next
	return true
}
