package initchecker

import "fmt"

// CheckInit принимает пары имя/значение и паникует, если зависимость обработчика еще не создана.
// Используется в NewHandler для контроля порядка инициализации сервисов.
func CheckInit(pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("CheckInit: нечетное количество аргументов")
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("CheckInit: имя зависимости должно быть строкой, получено %T", pairs[i]))
		}
		if pairs[i+1] == nil {
			panic(fmt.Sprintf("зависимость %s не инициализирована", name))
		}
	}
}
