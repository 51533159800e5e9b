package bot

// User-facing texts. Replies are sent with HTML formatting enabled.
const (
	replyStart = "Добро пожаловать в Шкед!\n\n" +
		"Чтобы получать уведомления о расписании и домашних заданиях, привяжите аккаунт:\n" +
		"1. Откройте Шкед в браузере и перейдите в профиль.\n" +
		"2. Нажмите «Привязать мессенджер» и скопируйте код.\n" +
		"3. Отправьте сюда <code>/link КОД</code>.\n\n" +
		"Список команд: /help"
	replyStartLinked = "С возвращением, %s! Аккаунт уже привязан к Шкед.\n\nСписок команд: /help"

	replyHelpHeader     = "Доступные команды:"
	replyUnknownCommand = "Неизвестная команда «%s». Список команд: /help"

	replyLinkUsage            = "Укажите код привязки: <code>/link КОД</code>. Код можно получить в профиле Шкед."
	replyLinkSuccess          = "Готово! Аккаунт привязан к профилю %s. Теперь сюда будут приходить уведомления."
	replyLinkNotFound         = "Код привязки не найден. Проверьте код или получите новый в профиле Шкед."
	replyLinkExpired          = "Срок действия кода истёк. Получите новый код в профиле Шкед."
	replyLinkAlreadyUsed      = "Код недействителен: он уже был использован. Получите новый код в профиле Шкед."
	replyLinkAccountLinked    = "Этот аккаунт уже привязан к профилю Шкед. Чтобы привязать другой профиль, сначала отправьте /unlink."
	replyLinkWebAccountLinked = "К вашему профилю Шкед уже привязан другой аккаунт этого мессенджера. Отвяжите его в профиле и повторите."
	replyLinkAccountNotSeen   = "Сначала отправьте боту /start, затем повторите привязку."

	replyUnlinkSuccess = "Аккаунт отвязан от профиля Шкед. Уведомления больше не будут приходить."
	replyNotLinked     = "Аккаунт не привязан к профилю Шкед. Отправьте <code>/link КОД</code>, чтобы привязать его."

	replyStatusLinked = "Аккаунт привязан к профилю: %s\nУведомления: %s\nСообщений боту: %d"

	replyNotifyUsage = "Используйте <code>/notify on</code> или <code>/notify off</code>."
	replyNotifyOn    = "Уведомления включены."
	replyNotifyOff   = "Уведомления выключены. Включить снова: <code>/notify on</code>."

	replyScheduleUsage = "Используйте <code>/schedule</code>, <code>/schedule today</code> или <code>/schedule tomorrow</code>."
	replyNoLessons     = "На %s занятий нет."
	replyLessonsHeader = "Расписание на %s:"
	replyNoHomework    = "Ближайших домашних заданий нет."
	replyHomeworkHead  = "Домашние задания на неделю:"
	replyNoGroup       = "Вы не состоите в учебной группе. Обратитесь в деканат."
)
