package store

// action carries the fixed notification text for one store operation.
// Error details are logged, never shown.
type action struct {
	name        string
	failTitle   string
	failMessage string
	okTitle     string
	okMessage   string
}

var (
	actLoadTasks = action{
		name:        "loading tasks",
		failTitle:   "데이터 로드 실패",
		failMessage: "할 일 목록을 불러오는데 실패했습니다.",
	}
	actLoadDashboard = action{
		name:        "loading dashboard",
		failTitle:   "대시보드 로드 실패",
		failMessage: "대시보드 데이터를 불러오는데 실패했습니다.",
	}
	actAddTask = action{
		name:        "creating task",
		failTitle:   "생성 실패",
		failMessage: "새 할 일을 생성하는데 실패했습니다.",
		okTitle:     "추가 완료",
		okMessage:   "새로운 할 일이 성공적으로 추가되었습니다.",
	}
	actUpdateTask = action{
		name:        "updating task",
		failTitle:   "수정 실패",
		failMessage: "할 일을 수정하는데 실패했습니다.",
		okTitle:     "수정 완료",
		okMessage:   "할 일이 성공적으로 수정되었습니다.",
	}
	actDeleteTask = action{
		name:        "deleting task",
		failTitle:   "삭제 실패",
		failMessage: "할 일을 삭제하는데 실패했습니다.",
		okTitle:     "삭제 완료",
		okMessage:   "할 일이 성공적으로 삭제되었습니다.",
	}
	actToggleTask = action{
		name:        "toggling task",
		failTitle:   "상태 변경 실패",
		failMessage: "할 일 상태를 변경하는데 실패했습니다.",
	}
	actLoadEvents = action{
		name:        "loading events",
		failTitle:   "이벤트 로드 실패",
		failMessage: "캘린더 이벤트를 불러오는데 실패했습니다.",
	}
	actAddEvent = action{
		name:        "creating event",
		failTitle:   "이벤트 생성 실패",
		failMessage: "새 이벤트를 생성하는데 실패했습니다.",
		okTitle:     "이벤트 생성 완료",
		okMessage:   "새 이벤트가 성공적으로 생성되었습니다.",
	}
	actUpdateEvent = action{
		name:        "updating event",
		failTitle:   "이벤트 수정 실패",
		failMessage: "이벤트를 수정하는데 실패했습니다.",
		okTitle:     "이벤트 수정 완료",
		okMessage:   "이벤트가 성공적으로 수정되었습니다.",
	}
	actDeleteEvent = action{
		name:        "deleting event",
		failTitle:   "이벤트 삭제 실패",
		failMessage: "이벤트를 삭제하는데 실패했습니다.",
		okTitle:     "이벤트 삭제 완료",
		okMessage:   "이벤트가 성공적으로 삭제되었습니다.",
	}
)
