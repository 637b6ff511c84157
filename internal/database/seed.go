package database

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/minhngvn/scholarship-hub/internal/model"
	"github.com/minhngvn/scholarship-hub/internal/repository"
)

// SeedScholarships inserts the starter listings when the scholarships
// table is empty, so a fresh deployment has something to browse.
// A non-empty table is left untouched.
func SeedScholarships(ctx context.Context, repo *repository.ScholarshipRepo) error {
	existing, err := repo.ListScholarships(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	log.Printf("database: scholarships table empty, seeding %d starter listings", len(seedScholarships))
	for _, s := range seedScholarships {
		if err := repo.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin ensures a bootstrap administrator account exists.  The
// API itself can never create or promote an ADMIN, so the first one
// has to come from deployment config.  An account that already
// exists is promoted if needed but its password is left alone.
func SeedAdmin(ctx context.Context, users *repository.UserRepo, username, password string, cost int) error {
	u, err := users.Create(ctx, username, password, cost)
	switch {
	case err == nil:
		log.Printf("database: created bootstrap admin %q", u.Username)
	case errors.Is(err, repository.ErrUsernameExists):
		if u, err = users.GetByUsername(ctx, username); err != nil {
			return err
		}
	default:
		return err
	}
	if u.Role == model.RoleAdmin {
		return nil
	}
	return users.SetRole(ctx, u.Username, model.RoleAdmin)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var seedScholarships = []model.Scholarship{
	{
		ID: "scholarship-1",
		Title: model.Localized{
			EN: "Future Leaders Scholarship",
			VI: "Học bổng Nhà lãnh đạo tương lai",
		},
		Organization: model.Localized{
			EN: "Global Tech Foundation",
			VI: "Quỹ Công nghệ Toàn cầu",
		},
		Description: model.Localized{
			EN: "A scholarship for undergraduate students who have demonstrated leadership potential and a passion for technology. Applicants must be enrolled in a full-time STEM program.",
			VI: "Học bổng dành cho sinh viên đại học đã thể hiện tiềm năng lãnh đạo và niềm đam mê công nghệ. Ứng viên phải đang theo học chương trình STEM toàn thời gian.",
		},
		Eligibility: model.LocalizedList{
			EN: []string{"Enrolled in a STEM program", "Minimum 3.5 GPA", "Demonstrated leadership experience"},
			VI: []string{"Đang theo học chương trình STEM", "Điểm trung bình tối thiểu 3.5", "Có kinh nghiệm lãnh đạo"},
		},
		AmountUSD:    10000,
		ImageURL:     "https://picsum.photos/seed/tech/800/400",
		Website:      "https://example.com/scholarship1",
		DateUploaded: day(2024, time.May, 20),
		Tags:         []string{"tech", "stem", "leadership"},
	},
	{
		ID: "scholarship-2",
		Title: model.Localized{
			EN: "Creative Arts Grant",
			VI: "Tài trợ Nghệ thuật Sáng tạo",
		},
		Organization: model.Localized{
			EN: "The Art Institute",
			VI: "Viện Nghệ thuật",
		},
		Description: model.Localized{
			EN: "For talented students pursuing a degree in visual arts, design, or music. A portfolio submission is required.",
			VI: "Dành cho các sinh viên tài năng theo đuổi bằng cấp về nghệ thuật thị giác, thiết kế hoặc âm nhạc. Yêu cầu nộp hồ sơ năng lực.",
		},
		Eligibility: model.LocalizedList{
			EN: []string{"Enrolled in an arts program", "Portfolio submission required", "Open to all nationalities"},
			VI: []string{"Đang theo học chương trình nghệ thuật", "Yêu cầu nộp hồ sơ năng lực", "Mở cho tất cả các quốc tịch"},
		},
		AmountUSD:    5000,
		ImageURL:     "https://picsum.photos/seed/art/800/400",
		Website:      "https://example.com/scholarship2",
		DateUploaded: day(2024, time.May, 15),
		Tags:         []string{"arts", "design", "music"},
	},
	{
		ID: "scholarship-3",
		Title: model.Localized{
			EN: "Community Service Award",
			VI: "Giải thưởng Dịch vụ Cộng đồng",
		},
		Organization: model.Localized{
			EN: "Volunteers United",
			VI: "Tình nguyện viên đoàn kết",
		},
		Description: model.Localized{
			EN: "Recognizing students who have made a significant impact in their communities through volunteer work. Requires a letter of recommendation from a non-profit organization.",
			VI: "Ghi nhận những sinh viên đã có tác động đáng kể trong cộng đồng của họ thông qua công việc tình nguyện. Yêu cầu thư giới thiệu từ một tổ chức phi lợi nhuận.",
		},
		Eligibility: model.LocalizedList{
			EN: []string{"Minimum 100 hours of community service", "Letter of recommendation required"},
			VI: []string{"Tối thiểu 100 giờ phục vụ cộng đồng", "Yêu cầu thư giới thiệu"},
		},
		AmountUSD:    2500,
		ImageURL:     "https://picsum.photos/seed/community/800/400",
		Website:      "https://example.com/scholarship3",
		DateUploaded: day(2024, time.May, 10),
		Tags:         []string{"community_service", "volunteering"},
	},
}
