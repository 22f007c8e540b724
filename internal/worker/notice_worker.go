package worker

import (
	"github.com/spec-kit/admin-console/internal/service"
)

// StartNoticeWorker registers the notice handlers on the dispatcher.
func StartNoticeWorker(noticeService *service.NoticeService) {
	if noticeService == nil {
		return
	}
	noticeService.RegisterHandlers()
}
