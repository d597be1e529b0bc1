package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Администратор отправил /upload и ждёт документ .xlsx
	StateAwaitingSpreadsheet UserState = "awaiting_spreadsheet"
)

// Ключи временных данных
const (
	KeySearchQuery = "search_query" // последний запрос /skill для пагинации
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]any // Временные данные для текущего диалога
}
