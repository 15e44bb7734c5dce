package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/model"
	"github.com/florishenkelman/gdpr-tool/internal/session"
	"github.com/florishenkelman/gdpr-tool/internal/store"
	"github.com/florishenkelman/gdpr-tool/internal/store/postgres"
	"github.com/florishenkelman/gdpr-tool/internal/ui"
)

var articleCmd = &cobra.Command{
	Use:     "article",
	Short:   "Browse GDPR reference articles",
	GroupID: "reference",
}

// openArticleCache connects to the offline cache. It errors when no cache
// database is configured so offline commands fail with a clear message.
func openArticleCache() (store.ArticleCache, error) {
	if cfg.CacheDatabaseURL == "" {
		return nil, fmt.Errorf("no article cache configured; set GDPR_CACHE_DATABASE_URL")
	}
	return postgres.New(cfg.CacheDatabaseURL)
}

// warnIfStale prints a warning when the cache has not been refreshed within
// the configured maximum age.
func warnIfStale(ctx context.Context, cache store.ArticleCache) {
	last, err := cache.LastRefreshed(ctx)
	if err != nil || last.IsZero() {
		return
	}
	if age := time.Since(last); age > cfg.CacheMaxAge {
		fmt.Fprintf(os.Stderr, "warning: cached articles are %s old; run 'gdpr article refresh'\n", age.Round(time.Hour))
	}
}

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")

		var articles []*model.Article
		if offline {
			cache, err := openArticleCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			warnIfStale(cmd.Context(), cache)
			articles, err = cache.ListArticles(cmd.Context())
			if err != nil {
				return err
			}
		} else {
			var err error
			articles, err = services.Articles.List(cmd.Context())
			if err != nil {
				fail(err)
			}
		}
		if jsonOutput {
			printJSON(articles)
			return nil
		}
		printArticleListTable(articles)
		return nil
	},
}

var articleShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full text of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")

		var article *model.Article
		if offline {
			cache, err := openArticleCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			warnIfStale(cmd.Context(), cache)
			article, err = cache.GetArticle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
		} else {
			var err error
			article, err = services.Articles.Get(cmd.Context(), args[0])
			if err != nil {
				fail(err)
			}
		}
		if jsonOutput {
			printJSON(article)
			return nil
		}
		printArticle(article)
		return nil
	},
}

var articleSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search articles by title and content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")

		var articles []*model.Article
		if offline {
			cache, err := openArticleCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			warnIfStale(cmd.Context(), cache)
			articles, err = cache.SearchArticles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
		} else {
			var err error
			articles, err = services.Articles.Search(cmd.Context(), args[0])
			if err != nil {
				fail(err)
			}
		}
		if jsonOutput {
			printJSON(articles)
			return nil
		}
		printArticleListTable(articles)
		return nil
	},
}

var articleRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the offline article cache from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openArticleCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		articles, err := services.Articles.List(cmd.Context())
		if err != nil {
			fail(err)
		}
		if err := cache.ReplaceAll(cmd.Context(), articles, time.Now()); err != nil {
			return fmt.Errorf("writing cache: %w", err)
		}
		fmt.Printf("cached %d articles\n", len(articles))

		// Bookmarks are per-account, so they are only snapshotted when a
		// session is active. A failure here leaves the article cache intact.
		if mgr.Status() == session.StatusAuthenticated {
			saved, err := services.Articles.ListSaved(cmd.Context())
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: bookmarks not cached: %v\n", err)
				return nil
			}
			if err := cache.ReplaceSaved(cmd.Context(), saved, time.Now()); err != nil {
				return fmt.Errorf("writing saved cache: %w", err)
			}
			fmt.Printf("cached %d bookmarks\n", len(saved))
		}
		return nil
	},
}

var articleSavedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List your bookmarked articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")

		var saved []*model.SavedArticle
		if offline {
			cache, err := openArticleCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			warnIfStale(cmd.Context(), cache)
			saved, err = cache.ListSaved(cmd.Context())
			if err != nil {
				return err
			}
		} else {
			var err error
			saved, err = services.Articles.ListSaved(cmd.Context())
			if err != nil {
				fail(err)
			}
		}
		if jsonOutput {
			printJSON(saved)
			return nil
		}
		if len(saved) == 0 {
			fmt.Println("no saved articles")
			return nil
		}
		for _, s := range saved {
			if s.Article != nil {
				fmt.Printf("%s  %s %s\n", s.ID, ui.RenderAccent("Article "+s.Article.ArticleNumber), s.Article.Title)
			} else {
				fmt.Printf("%s  article %s\n", s.ID, s.ArticleID)
			}
		}
		return nil
	},
}

var articleSaveCmd = &cobra.Command{
	Use:   "save <article-id>",
	Short: "Bookmark an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := services.Articles.Save(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		fmt.Printf("saved article %s (bookmark %s)\n", saved.ArticleID, saved.ID)
		return nil
	},
}

var articleUnsaveCmd = &cobra.Command{
	Use:   "unsave <bookmark-id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.Articles.DeleteSaved(cmd.Context(), args[0]); err != nil {
			fail(err)
		}
		fmt.Printf("removed bookmark %s\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{articleListCmd, articleShowCmd, articleSearchCmd, articleSavedCmd} {
		c.Flags().Bool("offline", false, "read from the local cache instead of the server")
	}

	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleShowCmd)
	articleCmd.AddCommand(articleSearchCmd)
	articleCmd.AddCommand(articleRefreshCmd)
	articleCmd.AddCommand(articleSavedCmd)
	articleCmd.AddCommand(articleSaveCmd)
	articleCmd.AddCommand(articleUnsaveCmd)
}
