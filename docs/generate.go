package docs

//go:generate swag init -d .. -g cmd/api/main.go -o . --parseInternal --outputTypes go,json
