package apimodels

type Response struct {
	Status   string      `json:"status"`             //результат обработки fail/success
	Message  string      `json:"message,omitempty"`  //сообщение ошибки
	Messages []string    `json:"messages,omitempty"` //список нарушений при проверке данных
	Data     interface{} `json:"data,omitempty"`     //данные ответа
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewValidationError(messages []string) Response {
	return Response{
		Status:   "fail",
		Message:  "данные не прошли проверку",
		Messages: messages,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}
