package iocli

// IO абстрагирует консольный ввод/вывод операторских команд
// Позволяет подменять терминал в тестах
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
