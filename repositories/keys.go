package repositories

// Ключи кеша. Все ключи приложения живут под префиксом "tm:".
const chatGlobalKey = "tm:chat:global"

// ChatGlobalChannel — канал глобального чата.
const ChatGlobalChannel = chatGlobalKey

// ChatTournamentChannel возвращает канал чата конкретного турнира.
func ChatTournamentChannel(tournamentID string) string {
	return "tm:chat:tournament:" + tournamentID
}

func leaderboardKey(tournamentID string) string {
	return "tm:lb:" + tournamentID
}

func sessionKey(token string) string {
	return "tm:sess:" + token
}

func rateLimitKey(scope, id string) string {
	return "tm:rl:" + scope + ":" + id
}
