package service

import (
	"fmt"
	"strings"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
)

// demoPassword 演示账号的初始密码
const demoPassword = "password"

var seedGenres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary", "Drama",
	"Fantasy", "Horror", "Romance", "Science Fiction", "Thriller",
}

type seedMovie struct {
	movie  model.Movie
	genres []string
}

func sampleQualities(size string, uhd bool) model.VideoQualities {
	q := model.VideoQualities{
		"480p":  "https://sample-videos.com/zip/10/mp4/SampleVideo_640x360_" + size + ".mp4",
		"720p":  "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_" + size + ".mp4",
		"1080p": "https://sample-videos.com/zip/10/mp4/SampleVideo_1920x1080_" + size + ".mp4",
	}
	if uhd {
		q["4K"] = "https://sample-videos.com/zip/10/mp4/SampleVideo_3840x2160_" + size + ".mp4"
	}
	return q
}

func ip(v int) *int { return &v }

func seedMovies() []seedMovie {
	return []seedMovie{
		{
			movie: model.Movie{
				Title:       "The Dark Knight",
				Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
				PosterURL:   "https://image.tmdb.org/t/p/w500/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
				BackdropURL: "https://image.tmdb.org/t/p/w1280/hqkIcbrOHL86UncnHIsHVcVmzue.jpg",
				ReleaseYear: ip(2008), Rating: 9.0, Duration: ip(152),
				VideoURL:       "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4",
				VideoQualities: sampleQualities("1mb", false),
				TmdbID:         ip(155),
				TrailerURL:     "https://www.youtube.com/watch?v=EXeTwQWrcwY",
				IsPremium:      true,
			},
			genres: []string{"Action", "Crime", "Drama", "Thriller"},
		},
		{
			movie: model.Movie{
				Title:       "Inception",
				Description: "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
				PosterURL:   "https://image.tmdb.org/t/p/w500/9gk7adHYeDvHkCSEqAvQNLV5Uge.jpg",
				BackdropURL: "https://image.tmdb.org/t/p/w1280/s3TBrRGB1iav7gFOCNx3H31MoES.jpg",
				ReleaseYear: ip(2010), Rating: 8.8, Duration: ip(148),
				VideoURL:       "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_2mb.mp4",
				VideoQualities: sampleQualities("2mb", false),
				TmdbID:         ip(27205),
				TrailerURL:     "https://www.youtube.com/watch?v=YoHD9XEInc0",
				IsPremium:      true,
			},
			genres: []string{"Action", "Science Fiction", "Thriller"},
		},
		{
			movie: model.Movie{
				Title:       "The Shawshank Redemption",
				Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
				PosterURL:   "https://image.tmdb.org/t/p/w500/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg",
				BackdropURL: "https://image.tmdb.org/t/p/w1280/iNh3BivHyg5sQRPP1KOkzguEX0H.jpg",
				ReleaseYear: ip(1994), Rating: 9.3, Duration: ip(142),
				VideoURL:       "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_5mb.mp4",
				VideoQualities: sampleQualities("5mb", false),
				TmdbID:         ip(278),
				TrailerURL:     "https://www.youtube.com/watch?v=6hB3S9bIaco",
			},
			genres: []string{"Drama"},
		},
		{
			movie: model.Movie{
				Title:       "Pulp Fiction",
				Description: "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
				PosterURL:   "https://image.tmdb.org/t/p/w500/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg",
				BackdropURL: "https://image.tmdb.org/t/p/w1280/4cDFJr4HnXN5AdPw4AKrmLlMWdO.jpg",
				ReleaseYear: ip(1994), Rating: 8.9, Duration: ip(154),
				VideoURL:       "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_10mb.mp4",
				VideoQualities: sampleQualities("10mb", false),
				TmdbID:         ip(680),
				TrailerURL:     "https://www.youtube.com/watch?v=s7EdQ4FqbhY",
			},
			genres: []string{"Crime", "Drama"},
		},
		{
			movie: model.Movie{
				Title:       "Avatar",
				Description: "A paraplegic Marine dispatched to the moon Pandora on a unique mission becomes torn between following his orders and protecting the world he feels is his home.",
				PosterURL:   "https://image.tmdb.org/t/p/w500/jRXYjXNq0Cs2TcJjLkki24MLp7u.jpg",
				BackdropURL: "https://image.tmdb.org/t/p/w1280/Yc9q6QuWrMp9nuDm5R8ExNqbEWU.jpg",
				ReleaseYear: ip(2009), Rating: 7.8, Duration: ip(162),
				VideoURL:       "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_20mb.mp4",
				VideoQualities: sampleQualities("20mb", true),
				TmdbID:         ip(19995),
				TrailerURL:     "https://www.youtube.com/watch?v=5PSNL1qE6VY",
				IsPremium:      true,
			},
			genres: []string{"Action", "Adventure", "Fantasy", "Science Fiction"},
		},
		{
			movie: model.Movie{
				Title:       "The Avengers",
				Description: "Earth's mightiest heroes must come together and learn to fight as a team if they are going to stop the mischievous Loki and his alien army from enslaving humanity.",
				PosterURL:   "https://image.tmdb.org/t/p/w500/RYMX2wcKCBAr24UyPD7xwmjaTn.jpg",
				BackdropURL: "https://image.tmdb.org/t/p/w1280/9BBTo63ANSmhC4e6r62OJFuK2GL.jpg",
				ReleaseYear: ip(2012), Rating: 8.0, Duration: ip(143),
				VideoURL:       "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_30mb.mp4",
				VideoQualities: sampleQualities("30mb", true),
				TmdbID:         ip(24428),
				TrailerURL:     "https://www.youtube.com/watch?v=eOrNdBpGMv8",
				IsPremium:      true,
			},
			genres: []string{"Action", "Adventure", "Science Fiction"},
		},
	}
}

var seedAds = []model.Advertisement{
	{
		Name:      "Homepage Hero Banner",
		Code:      `<div class="ad ad-hero"><h3>Premium Streaming Experience</h3><p>Upgrade to Premium for 4K quality and ad-free viewing!</p></div>`,
		Placement: model.PlacementHomepageHero,
	},
	{
		Name:      "Homepage Sidebar Ad",
		Code:      `<div class="ad ad-sidebar"><h4>Download Our App</h4><p>Watch anywhere, anytime</p></div>`,
		Placement: model.PlacementHomepageSidebar,
	},
	{
		Name:      "Movie Detail Top Ad",
		Code:      `<div class="ad ad-top"><span>Get snacks delivered while you watch!</span></div>`,
		Placement: model.PlacementMovieDetailTop,
	},
	{
		Name:      "Movie Detail Bottom Ad",
		Code:      `<div class="ad ad-bottom"><h3>Upgrade to Premium</h3><p>Enjoy unlimited streaming, 4K quality, and exclusive content</p></div>`,
		Placement: model.PlacementMovieDetailBottom,
	},
	{
		Name:      "Player Overlay Ad",
		Code:      `<div class="ad ad-overlay"><span>Pause ads with Premium</span></div>`,
		Placement: model.PlacementPlayerOverlay,
	},
}

var seedUsers = []struct {
	email, username, role string
}{
	{"admin@streamflix.com", "Admin User", model.RoleAdmin},
	{"premium@streamflix.com", "Premium User", model.RolePremium},
	{"user@streamflix.com", "Basic User", model.RoleBasic},
}

// SeedReport 本次写入的数量
type SeedReport struct {
	Users  int
	Genres int
	Movies int
	Ads    int
}

// Seeder 演示数据，可重复执行
type Seeder struct {
	repos *repository.Repositories
}

func NewSeeder(repos *repository.Repositories) *Seeder {
	return &Seeder{repos: repos}
}

// Run 写入演示用户、类型、电影与广告
func (s *Seeder) Run() (*SeedReport, error) {
	report := &SeedReport{}

	for _, u := range seedUsers {
		taken, err := s.repos.User.EmailTaken(u.email)
		if err != nil {
			return nil, fmt.Errorf("查询用户失败: %w", err)
		}
		if taken {
			continue
		}
		user := &model.User{Email: u.email, Username: u.username, Role: u.role}
		if err := s.repos.User.Create(user, demoPassword); err != nil {
			return nil, fmt.Errorf("创建用户 %s 失败: %w", u.email, err)
		}
		report.Users++
	}

	genres := make(map[string]model.Genre, len(seedGenres))
	for _, name := range seedGenres {
		g, err := s.repos.Genre.FirstOrCreate(name, slugify(name))
		if err != nil {
			return nil, fmt.Errorf("创建类型 %s 失败: %w", name, err)
		}
		genres[name] = *g
	}
	report.Genres = len(genres)

	for _, sm := range seedMovies() {
		m := sm.movie
		m.IsActive = true
		linked := make([]model.Genre, 0, len(sm.genres))
		for _, name := range sm.genres {
			linked = append(linked, genres[name])
		}
		m.Genres = linked

		created, err := s.repos.Movie.FirstOrCreateByTitle(&m)
		if err != nil {
			return nil, fmt.Errorf("创建电影 %s 失败: %w", m.Title, err)
		}
		if created {
			report.Movies++
			continue
		}
		// 已存在的电影同步类型
		if err := s.repos.Movie.ReplaceGenres(&m, linked); err != nil {
			return nil, fmt.Errorf("同步电影 %s 的类型失败: %w", m.Title, err)
		}
	}

	for _, ad := range seedAds {
		ad.IsActive = true
		ad.SortOrder = 1
		if err := s.repos.Advertisement.FirstOrCreate(&ad); err != nil {
			return nil, fmt.Errorf("创建广告 %s 失败: %w", ad.Name, err)
		}
		report.Ads++
	}

	logging.Info().
		Int("users", report.Users).
		Int("genres", report.Genres).
		Int("movies", report.Movies).
		Int("ads", report.Ads).
		Msg("[Seeder] 演示数据已写入")
	return report, nil
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
