package algopay

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/usheguard/algopay/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/headers"
	"gopkg.in/h2non/gentleman.v2/plugins/query"
)

const redditGateway = "https://www.reddit.com"

type RedditCli struct {
	SCli *gentleman.Client
}

func NewRedditCli() *RedditCli {
	cli := gentleman.New().URL(redditGateway)
	cli.Use(headers.Set("User-Agent", "AlgorandDApp/1.0.0"))
	return &RedditCli{SCli: cli}
}

func (r *RedditCli) HotPosts(subreddit string, limit int) ([]schema.RedditPost, error) {
	req := r.SCli.Get()
	req.AddPath(fmt.Sprintf("/r/%s/hot.json", subreddit))
	req.Use(query.Set("limit", strconv.Itoa(limit)))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return parseHotPosts(resp.String()), nil
}

func parseHotPosts(raw string) []schema.RedditPost {
	posts := make([]schema.RedditPost, 0)
	gjson.Get(raw, "data.children").ForEach(func(_, child gjson.Result) bool {
		d := child.Get("data")
		posts = append(posts, schema.RedditPost{
			Id:          d.Get("id").String(),
			Title:       d.Get("title").String(),
			Author:      d.Get("author").String(),
			Subreddit:   d.Get("subreddit").String(),
			SelfText:    d.Get("selftext").String(),
			Url:         d.Get("url").String(),
			Permalink:   d.Get("permalink").String(),
			Ups:         d.Get("ups").Int(),
			NumComments: d.Get("num_comments").Int(),
			CreatedUtc:  d.Get("created_utc").Int(),
			Thumbnail:   d.Get("thumbnail").String(),
		})
		return true
	})
	return posts
}
